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
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// maybeDownload checks if the input is an existing file locally. If
// not and the path is a URL, it downloads the file and returns the
// path to the downloaded copy. c is a channel across which progress
// and retry messages will be sent.
func maybeDownload(path string, c chan string) string {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path
	}
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return path
	}
	dir, err := ioutil.TempDir("", "atmosim")
	if err != nil {
		c <- fmt.Sprintf("failed creating download directory: %v", err)
		return path
	}
	out := filepath.Join(dir, filepath.Base(path))
	c <- fmt.Sprintf("Downloading %s...\n", path)
	err = backoff.RetryNotify(
		func() error { return download(path, out) },
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			c <- fmt.Sprintf("%v: retrying in %v\n", err, d)
		},
	)
	if err != nil {
		c <- fmt.Sprintf("failed downloading %s: %v\n", path, err)
		return path
	}
	return out
}

// download fetches the file at the given URL into the given local path.
func download(url, out string) error {
	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
