/*
Copyright © 2021 the Atmosim authors.
This file is part of Atmosim.

Atmosim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Atmosim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Atmosim.  If not, see <http://www.gnu.org/licenses/>.
*/

package atmosim

import (
	"reflect"
	"testing"
)

func TestList(t *testing.T) {
	c0 := &Cell{Coord: CellCoord{Lat: 0, Lon: 0}}
	c1 := &Cell{Coord: CellCoord{Lat: 0, Lon: 1}}
	c2 := &Cell{Coord: CellCoord{Lat: 1, Lon: 0}}
	c3 := &Cell{Coord: CellCoord{Lat: 2, Lon: 5}}

	l := new(cellList)
	l2 := new(cellList)

	// Insertion order must not matter; the list keeps coordinate
	// order.
	for _, c := range []*Cell{c2, c0, c3, c1} {
		l.add(c)
		l2.add(c)
	}

	l2.deleteCell(c0)
	l2.deleteCell(c1)
	l2.deleteCell(c2)
	l2.deleteCell(c3)
	if l2.len() != 0 {
		t.Error("l2 should be empty but it is not.")
	}

	want := []*Cell{c0, c1, c2, c3}
	if !reflect.DeepEqual(l.array(), want) {
		t.Errorf("have %#v, want %#v", l.array(), want)
	}

	// Re-adding a member is a no-op.
	l.add(c1)
	if !reflect.DeepEqual(l.array(), want) {
		t.Errorf("have %#v, want %#v", l.array(), want)
	}

	l.deleteCell(c2)
	want = []*Cell{c0, c1, c3}
	if !reflect.DeepEqual(l.array(), want) {
		t.Errorf("have %#v, want %#v", l.array(), want)
	}

	// Deleting a non-member is a no-op.
	l.deleteCell(c2)
	if !reflect.DeepEqual(l.array(), want) {
		t.Errorf("have %#v, want %#v", l.array(), want)
	}

	if i, ok := l.index(c3); !ok || i != 2 {
		t.Errorf("index of c3: have %d,%v, want 2,true", i, ok)
	}
	if _, ok := l.index(c2); ok {
		t.Error("index found a deleted cell")
	}

	l3 := new(cellList)
	l3.add(c0)
	l3.add(c1)
	l3.deleteCell((*l3)[0])
	if l3.len() == 1 && (*l3)[0] == nil {
		t.Errorf("improperly formed list")
	}
}
