package MHD2D

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SaveFlow writes one delimited text grid per field into dir, named
// out_<field>_<step>.csv with an x,y,value row per cell. Read-only with
// respect to the FlowField.
func (ff *FlowField) SaveFlow(dir string, step int) (err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	for n, g := range ff.Fields() {
		fname := filepath.Join(dir, fmt.Sprintf("out_%s_%d.csv", FieldNames[n], step))
		if err = dumpScalar(g, fname); err != nil {
			return
		}
	}
	return
}

func dumpScalar(g *Grid, fname string) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Create(fname); err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	record := make([]string, 3)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			x, y := g.Coords(i, j)
			record[0] = strconv.FormatFloat(x, 'g', -1, 64)
			record[1] = strconv.FormatFloat(y, 'g', -1, 64)
			record[2] = strconv.FormatFloat(g.At(i, j), 'g', -1, 64)
			if err = w.Write(record); err != nil {
				return
			}
		}
	}
	w.Flush()
	err = w.Error()
	return
}
