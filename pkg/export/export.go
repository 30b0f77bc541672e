// Package export writes simulation outputs in formats external tooling can
// consume.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/lmercat/socsim/core/model"
)

// WriteJSON writes the trajectory to w as a single JSON document. The keys
// match the MQTT trajectory payload.
func WriteJSON(w io.Writer, traj model.SOCTrajectory) error {
	if len(traj.Times) != len(traj.Values) {
		return fmt.Errorf("trajectory length mismatch: %d times, %d values", len(traj.Times), len(traj.Values))
	}
	doc := struct {
		TimesS []float64 `json:"times_s"`
		SOC    []float64 `json:"soc"`
	}{TimesS: traj.Times, SOC: traj.Values}
	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

// WriteCSV writes the trajectory to w with a time_s,soc header row.
func WriteCSV(w io.Writer, traj model.SOCTrajectory) error {
	if len(traj.Times) != len(traj.Values) {
		return fmt.Errorf("trajectory length mismatch: %d times, %d values", len(traj.Times), len(traj.Values))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_s", "soc"}); err != nil {
		return err
	}
	for i := range traj.Times {
		rec := []string{
			strconv.FormatFloat(traj.Times[i], 'f', -1, 64),
			strconv.FormatFloat(traj.Values[i], 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
