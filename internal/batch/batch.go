// Package batch computes many charts from a YAML file of birth records.
package batch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/ziwei/internal/logging"
	"github.com/rcliao/ziwei/internal/model"
)

// Calculator computes a reading from birth data.
type Calculator interface {
	Calculate(in model.BirthInput) (*model.Reading, error)
}

// Result is the outcome for one input. Exactly one of Reading and Err is set.
type Result struct {
	Index   int              `json:"index"`
	Input   model.BirthInput `json:"input"`
	Reading *model.Reading   `json:"reading,omitempty"`
	Err     error            `json:"-"`
	Error   string           `json:"error,omitempty"`
}

type fileFormat struct {
	Births []entry `yaml:"births"`
}

type entry struct {
	Name     string `yaml:"name"`
	Gender   string `yaml:"gender"`
	Calendar string `yaml:"calendar"`
	Date     string `yaml:"date"`
	Hour     string `yaml:"hour"`
	Leap     bool   `yaml:"leap"`
}

// Load reads a batch file of the form:
//
//	births:
//	  - name: 小明
//	    gender: male
//	    calendar: solar
//	    date: 1990-06-07
//	    hour: 卯
//
// Entries that fail to parse are kept with out-of-range fields so that Run
// reports them individually instead of rejecting the whole file.
func Load(path string) ([]model.BirthInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes batch file contents.
func Parse(data []byte) ([]model.BirthInput, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	inputs := make([]model.BirthInput, len(f.Births))
	for i, e := range f.Births {
		inputs[i] = e.input()
	}
	return inputs, nil
}

func (e entry) input() model.BirthInput {
	in := model.BirthInput{
		Name:      e.Name,
		Gender:    model.Gender(e.Gender),
		Calendar:  model.CalendarSystem(e.Calendar),
		Hour:      -1,
		LeapMonth: e.Leap,
	}
	if g, err := model.ParseGender(e.Gender); err == nil {
		in.Gender = g
	}
	if e.Calendar == "" {
		in.Calendar = model.Solar
	} else if c, err := model.ParseCalendarSystem(e.Calendar); err == nil {
		in.Calendar = c
	}
	if y, m, d, err := model.ParseDate(e.Date); err == nil {
		in.Year, in.Month, in.Day = y, m, d
	}
	if h, err := model.ParseHourSlot(strings.TrimSpace(e.Hour)); err == nil {
		in.Hour = h
	}
	return in
}

// Run computes every input with at most workers charts in flight. Results
// keep input order and a failing input does not stop the others. The
// returned error is only set when ctx ends before all inputs are computed.
func Run(ctx context.Context, calc Calculator, inputs []model.BirthInput, workers int, log *zap.Logger) ([]Result, error) {
	log = logging.OrNop(log).Named("batch")
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		results[i] = Result{Index: i, Input: in}
		if gctx.Err() != nil {
			results[i].fail(gctx.Err())
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].fail(err)
				return nil
			}
			r, err := calc.Calculate(in)
			if err != nil {
				log.Debug("chart failed", zap.Int("index", i), zap.String("name", in.Name), zap.Error(err))
				results[i].fail(err)
				return nil
			}
			results[i].Reading = r
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Result) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
