package caseload

import (
	"bytes"
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberMarshal(t *testing.T) {
	testData := map[string]struct {
		val      float64
		expected string
	}{
		"value":    {val: 1.5, expected: "1.5"},
		"integer":  {val: 46, expected: "46"},
		"nan":      {val: math.NaN(), expected: "null"},
		"infinity": {val: math.Inf(-1), expected: "null"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out, err := json.Marshal(number(td.val))
			require.Nil(t, err)
			assert.Equal(t, td.expected, string(out))
		})
	}
}

func TestAnalyzerReport(t *testing.T) {
	a := fitAnalyzer(t, 60)

	r, err := a.Report()
	require.Nil(t, err)
	assert.Equal(t, "total_cases", r.Name)
	assert.Len(t, r.Months, 60)
	assert.Equal(t, "2015-01-01", r.Months[0])
	assert.Empty(t, r.Missing)
	require.NotNil(t, r.ADF)
	require.NotNil(t, r.Model)
	assert.Equal(t, "ARIMA(1,1,1)", r.Model.Order)
	require.Len(t, r.Model.Coefficients, 3)
	require.NotNil(t, r.Scores)
	require.Len(t, r.Forecast, 12)
	assert.Equal(t, "2020-01-01", r.Forecast[0].Month)

	var buf bytes.Buffer
	require.Nil(t, r.WriteJSON(&buf))

	var decoded map[string]any
	require.Nil(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "total_cases", decoded["name"])
	assert.InDelta(t, 0.05, decoded["alpha"], 1e-12)

	fitted, ok := decoded["fitted"].([]any)
	require.True(t, ok)
	require.Len(t, fitted, 60)
	assert.Nil(t, fitted[0])
	assert.NotNil(t, fitted[1])

	std, ok := decoded["standardized_residuals"].([]any)
	require.True(t, ok)
	require.Len(t, std, 60)
	assert.Nil(t, std[0])
	assert.NotNil(t, std[1])

	fcst, ok := decoded["forecast"].([]any)
	require.True(t, ok)
	assert.Len(t, fcst, 12)

	adf, ok := decoded["adf"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, adf, "critical_values")
	assert.Contains(t, adf, "r_squared")
	assert.NotContains(t, decoded, "missing_months")
}

func TestAnalyzerReportPartial(t *testing.T) {
	mt, y := generateCaseload(48, 5)
	y[10] = math.NaN()

	a, err := New(nil)
	require.Nil(t, err)
	require.NotNil(t, a.Fit(mt, y))

	r, err := a.Report()
	require.Nil(t, err)
	assert.Equal(t, []string{"2015-11-01"}, r.Missing)
	assert.NotNil(t, r.ADF)
	assert.NotNil(t, r.ACF)
	assert.Nil(t, r.Model)
	assert.Nil(t, r.Scores)
	assert.Empty(t, r.Forecast)

	var buf bytes.Buffer
	require.Nil(t, r.WriteJSON(&buf))
	assert.Contains(t, buf.String(), "null")
	assert.NotContains(t, buf.String(), `"model"`)
}

func TestAnalyzerTablePrint(t *testing.T) {
	a := fitAnalyzer(t, 60)

	var buf bytes.Buffer
	require.Nil(t, a.TablePrint(&buf))
	out := buf.String()
	assert.Contains(t, out, "ADF test for total_cases")
	assert.Contains(t, out, "ARIMA(1,1,1) Results")
	assert.Contains(t, out, "Scores:")
	assert.Contains(t, out, "MAPE:")
	assert.Contains(t, out, "Forecast:")
	assert.Contains(t, out, "Lower 95%")
	assert.Contains(t, out, "2020-01")
	assert.Contains(t, out, "2020-12")
}
