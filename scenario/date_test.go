package scenario

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"day", "2020-03-01", NewDate(2020, time.March, 1), false},
		{"padded", " 2020-03-01 ", NewDate(2020, time.March, 1), false},
		{"rfc3339 utc", "2020-03-01T00:00:00Z", NewDate(2020, time.March, 1), false},
		{"rfc3339 offset", "2020-03-01T23:30:00-02:00", NewDate(2020, time.March, 2), false},
		{"garbage", "first of march", Date{}, true},
		{"empty", "", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2020-12-31", NewDate(2020, time.December, 31).String())
	assert.Equal(t, "", Date{}.String())
	assert.True(t, Date{}.IsZero())
	assert.True(t, NewDate(2020, 1, 1).Before(NewDate(2020, 1, 2)))
}

func TestDate_JSON(t *testing.T) {
	out, err := json.Marshal(NewDate(2021, time.July, 4))
	require.NoError(t, err)
	assert.Equal(t, `"2021-07-04"`, string(out))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2021-07-04"`), &d))
	assert.Equal(t, NewDate(2021, time.July, 4), d)

	assert.Error(t, json.Unmarshal([]byte(`20210704`), &d))
}

func TestDate_YAML(t *testing.T) {
	var holder struct {
		When Date `yaml:"when"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("when: 2021-07-04\n"), &holder))
	assert.Equal(t, NewDate(2021, time.July, 4), holder.When)

	err := yaml.Unmarshal([]byte("when: [2021]\n"), &holder)
	var typeErr *yaml.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, typeErr.Errors[0], "expected a YYYY-MM-DD date")

	out, err := yaml.Marshal(holder)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2021-07-04")
}
