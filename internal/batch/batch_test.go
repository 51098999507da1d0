package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/ziwei/internal/lunar"
	"github.com/rcliao/ziwei/internal/model"
	"github.com/rcliao/ziwei/internal/ziwei"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleFile = `
births:
  - name: 小明
    gender: male
    calendar: solar
    date: 1990-06-07
    hour: 卯
  - name: 小華
    gender: 女
    calendar: lunar
    date: 2023-02-20
    hour: "11"
    leap: true
  - name: 壞資料
    gender: other
    date: 1990/06/07
    hour: 午夜
`

func TestParse(t *testing.T) {
	inputs, err := Parse([]byte(sampleFile))
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	assert.Equal(t, model.BirthInput{
		Name: "小明", Gender: model.Male, Calendar: model.Solar,
		Year: 1990, Month: 6, Day: 7, Hour: 3,
	}, inputs[0])
	assert.Equal(t, model.Lunar, inputs[1].Calendar)
	assert.True(t, inputs[1].LeapMonth)
	assert.Equal(t, model.HourSlot(11), inputs[1].Hour)

	bad := inputs[2]
	assert.Equal(t, model.Solar, bad.Calendar, "calendar defaults to solar")
	assert.Equal(t, model.HourSlot(-1), bad.Hour)
	assert.Zero(t, bad.Month)
	assert.Error(t, ziwei.ValidateInput(bad))
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("births: [\n"))
	assert.ErrorContains(t, err, "parse batch file")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "births.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))
	inputs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, inputs, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunWithCalendar(t *testing.T) {
	inputs, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	results, err := Run(context.Background(), ziwei.NewCalculator(lunar.New()), inputs, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, inputs[i], r.Input)
	}
	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Reading)
	assert.Equal(t, "小明", results[0].Reading.Profile.Name)
	require.NoError(t, results[1].Err)
	assert.Contains(t, results[1].Reading.Profile.LunarDateTime, "閏月修正")

	assert.True(t, ziwei.IsKind(results[2].Err, ziwei.KindInvalidInput))
	assert.NotEmpty(t, results[2].Error)
	assert.Nil(t, results[2].Reading)
	assert.Equal(t, 1, Failed(results))
}

type countingCalc struct {
	inFlight, peak atomic.Int32
	delay          time.Duration
}

func (c *countingCalc) Calculate(in model.BirthInput) (*model.Reading, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(c.delay)
	if in.Name == "fail" {
		return nil, errors.New("boom")
	}
	return &model.Reading{Profile: model.Profile{Name: in.Name}}, nil
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	inputs := make([]model.BirthInput, 12)
	for i := range inputs {
		inputs[i].Name = string(rune('a' + i))
	}
	inputs[5].Name = "fail"

	calc := &countingCalc{delay: 5 * time.Millisecond}
	results, err := Run(context.Background(), calc, inputs, 3, nil)
	require.NoError(t, err)

	assert.LessOrEqual(t, calc.peak.Load(), int32(3))
	assert.Equal(t, 1, Failed(results))
	for i, r := range results {
		if i == 5 {
			assert.EqualError(t, r.Err, "boom")
			continue
		}
		require.NotNil(t, r.Reading, "result %d", i)
		assert.Equal(t, inputs[i].Name, r.Reading.Profile.Name)
	}
}

func TestRunCanceled(t *testing.T) {
	inputs := make([]model.BirthInput, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, &countingCalc{}, inputs, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 5)
	assert.Equal(t, 5, Failed(results))
}
