// Package geotiff reads and writes single-band rasters through GDAL.
package geotiff

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/ChicagoDave/habitat/pkg/raster"
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(godal.RegisterAll)
}

// IO implements raster reading and writing for GeoTIFF files.
type IO struct{}

// Read loads band 1 of the raster at path. Cells equal to the band's NoData
// value become NaN. The dataset is closed on every return path.
func (IO) Read(path string) (r *raster.Raster, err error) {
	register()

	ds, err := godal.Open(path)
	if err != nil {
		return nil, &raster.ReadError{Path: path, Err: err}
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			r, err = nil, &raster.ReadError{Path: path, Err: cerr}
		}
	}()

	st := ds.Structure()
	if st.NBands < 1 {
		return nil, &raster.ReadError{Path: path, Err: errors.New("dataset has no bands")}
	}
	if st.SizeX < 1 || st.SizeY < 1 {
		return nil, &raster.ReadError{Path: path, Err: fmt.Errorf("empty raster %dx%d", st.SizeX, st.SizeY)}
	}

	band := ds.Bands()[0]
	vals := make([]float64, st.SizeX*st.SizeY)
	if err := band.Read(0, 0, vals, st.SizeX, st.SizeY); err != nil {
		return nil, &raster.ReadError{Path: path, Err: err}
	}

	out := raster.FromValues(st.SizeY, st.SizeX, vals, raster.Identity(), ds.Projection())
	out.Source = path
	if nd, ok := band.NoData(); ok {
		out.NoData, out.HasNoData = nd, true
		raster.MaskSentinel(out.Values(), nd)
	}
	if gt, gerr := ds.GeoTransform(); gerr == nil {
		out.Transform = raster.GeoTransform(gt)
	} else {
		out.Georeferenced = false
	}
	return out, nil
}

// Write stores r as a single-band float32 GeoTIFF with NaN cells written as
// opts.NoData. The dataset is flushed and closed before Write returns.
func (IO) Write(path string, r *raster.Raster, opts raster.WriteOptions) (err error) {
	register()

	rows, cols := r.Dims()
	var create []godal.DatasetCreateOption
	if opts.Compress != "" {
		create = append(create, godal.CreationOption("COMPRESS="+opts.Compress))
	}
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, cols, rows, create...)
	if err != nil {
		return &raster.WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = &raster.WriteError{Path: path, Err: cerr}
		}
	}()

	if r.Georeferenced {
		if err := ds.SetGeoTransform([6]float64(r.Transform)); err != nil {
			return &raster.WriteError{Path: path, Err: fmt.Errorf("setting geotransform: %w", err)}
		}
	}
	if r.CRS != "" {
		if err := ds.SetProjection(r.CRS); err != nil {
			return &raster.WriteError{Path: path, Err: fmt.Errorf("setting projection: %w", err)}
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(opts.NoData); err != nil {
		return &raster.WriteError{Path: path, Err: fmt.Errorf("setting nodata: %w", err)}
	}
	buf := raster.FillSentinel(r.Values(), opts.NoData)
	if err := band.Write(0, 0, buf, cols, rows); err != nil {
		return &raster.WriteError{Path: path, Err: err}
	}
	return nil
}
