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
	"fmt"
	"sort"
)

// cellList is a list of cells kept sorted in coordinate order.
type cellList []*Cell

func (l *cellList) len() int {
	return len(*l)
}

// array returns a sorted array of the cells in this list.
func (l *cellList) array() []*Cell {
	o := make([]*Cell, len(*l))
	copy(o, *l)
	return o
}

// add inserts the cell at its sorted location in the list.
// Adding a cell that is already in the list is a no-op.
func (l *cellList) add(c *Cell) {
	i := sort.Search(len(*l), func(i int) bool {
		return c.before((*l)[i])
	})
	if i < len(*l) && (*l)[i] == c {
		return
	}
	(*l) = append((*l), nil)
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = c
}

// deleteCell deletes this Cell from the list. Deleting a cell that
// is not in the list is a no-op.
func (l *cellList) deleteCell(c *Cell) {
	i, ok := l.index(c)
	if !ok {
		return
	}
	copy((*l)[i:], (*l)[i+1:])
	(*l)[len(*l)-1] = nil
	(*l) = (*l)[:len(*l)-1]
}

// index returns the index of c and whether it was found.
func (l *cellList) index(c *Cell) (int, bool) {
	i := sort.Search(len(*l), func(i int) bool {
		return c.before((*l)[i])
	})
	if i == len(*l) || (*l)[i] != c {
		return -1, false
	}
	return i, true
}

func (l *cellList) String() string {
	s := ""
	for i, c := range *l {
		if i != 0 {
			s += "\n"
		}
		s += fmt.Sprint(c)
	}
	return s
}
