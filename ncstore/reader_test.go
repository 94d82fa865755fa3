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
	"path/filepath"
	"sync"
	"testing"

	"github.com/spatialmodel/acqdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.nc")
	want, err := acqdata.GaussianScan("scan", 4, 16)
	require.NoError(t, err)
	require.NoError(t, SaveFile(path, &want.DataToExport, true))

	r := NewReader(2)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*acqdata.DataToExport, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = r.Load(ctx, path)
		}(i)
	}
	wg.Wait()
	for i, have := range results {
		require.NoError(t, errs[i])
		assert.True(t, have.Equal(&want.DataToExport))
	}
	assert.NotSame(t, results[0], results[1])

	first, scan, err := r.Load(ctx, path)
	require.NoError(t, err)
	assert.True(t, scan)
	d, err := first.Get(0)
	require.NoError(t, err)
	d.Data()[0].Elements[0] = 1000
	second, _, err := r.Load(ctx, path)
	require.NoError(t, err)
	assert.True(t, second.Equal(&want.DataToExport), "changes to a result should not reach the cache")

	bigger, err := acqdata.GaussianScan("scan", 5, 16)
	require.NoError(t, err)
	require.NoError(t, SaveFile(path, &bigger.DataToExport, false))
	third, scan, err := r.Load(ctx, path)
	require.NoError(t, err)
	assert.False(t, scan)
	assert.True(t, third.Equal(&bigger.DataToExport), "a rewritten file should be read again")

	_, _, err = r.Load(ctx, filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}
