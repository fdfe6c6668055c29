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

package atmosimutil

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// Test whether local paths pass through unchanged and URLs are
// downloaded to a temporary file.
func TestMaybeDownload(t *testing.T) {
	c := make(chan string, 10)

	const local = "tmp_download_local.toml"
	writeScenarioFile(t, local, "Duration = 1.0\n")
	defer os.Remove(local)
	if p := maybeDownload(local, c); p != local {
		t.Errorf("existing file: %q", p)
	}
	if p := maybeDownload("no_such_file.toml", c); p != "no_such_file.toml" {
		t.Errorf("missing non-URL: %q", p)
	}

	const contents = "Duration = 2.0\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contents)
	}))
	defer srv.Close()
	p := maybeDownload(srv.URL+"/scenario.toml", c)
	if p == srv.URL+"/scenario.toml" {
		t.Fatal("URL was not downloaded")
	}
	defer os.RemoveAll(p)
	b, err := ioutil.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != contents {
		t.Errorf("downloaded contents %q", b)
	}
}
