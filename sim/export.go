package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	locsim "github.com/milosgajdos/go-locsim"
)

var header = []string{"step", "x", "y", "theta"}

// WriteCSV writes pose history poses to w as CSV records with the header step,x,y,theta.
// If id is not empty the records are preceded by a "# run <id>" comment line.
func WriteCSV(w io.Writer, id string, poses []locsim.Pose) error {
	if id != "" {
		if _, err := fmt.Fprintf(w, "# run %s\n", id); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, p := range poses {
		rec := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatFloat(p.Theta, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// ReadCSV reads pose history written by WriteCSV from r.
// Comment lines are skipped. It returns error if any record is malformed.
func ReadCSV(r io.Reader) ([]locsim.Pose, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(header)

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(recs) == 0 || recs[0][0] != header[0] {
		return nil, fmt.Errorf("missing pose header")
	}

	poses := make([]locsim.Pose, 0, len(recs)-1)
	for i, rec := range recs[1:] {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("record %d: %v", i, err)
			}
			vals[j] = v
		}
		poses = append(poses, locsim.Pose{X: vals[0], Y: vals[1], Theta: vals[2]})
	}

	return poses, nil
}
