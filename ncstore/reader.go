/*
Copyright © 2023 the acqdata authors.
This file is part of acqdata.

acqdata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

acqdata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with acqdata.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncstore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/acqdata"
	"github.com/spatialmodel/acqdata/internal/hash"
)

// DefaultCacheSize is the number of files a Reader keeps in memory
// unless CacheSize is set.
const DefaultCacheSize = 16

// Reader loads saved collections, keeping recently loaded files in
// memory. A file is read again when its size or modification time
// changes. Reader is safe for concurrent use; concurrent requests for
// the same file read it only once.
type Reader struct {
	// CacheSize is the number of files kept in memory. It must be set
	// before the first call to Load.
	CacheSize int

	once  sync.Once
	cache *requestcache.Cache
}

// NewReader returns a Reader keeping up to cacheSize files in memory.
func NewReader(cacheSize int) *Reader {
	return &Reader{CacheSize: cacheSize}
}

type loaded struct {
	dte  *acqdata.DataToExport
	scan bool
}

type fileKey struct {
	Path    string
	Size    int64
	ModTime int64
}

// Load returns the collection saved in the file at path and whether it
// was saved as a DataScan. The result is a copy owned by the caller.
func (r *Reader) Load(ctx context.Context, path string) (*acqdata.DataToExport, bool, error) {
	r.once.Do(func() {
		size := r.CacheSize
		if size < 1 {
			size = DefaultCacheSize
		}
		r.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			dte, scan, err := LoadFile(request.(string))
			if err != nil {
				return nil, err
			}
			return loaded{dte: dte, scan: scan}, nil
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(size))
	})

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, errors.Wrap(err, "ncstore")
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, false, errors.Wrap(err, "ncstore")
	}
	key := hash.Key(fileKey{Path: abs, Size: fi.Size(), ModTime: fi.ModTime().UnixNano()})
	result, err := r.cache.NewRequest(ctx, abs, key).Result()
	if err != nil {
		return nil, false, err
	}
	l := result.(loaded)
	return l.dte.Copy(), l.scan, nil
}
