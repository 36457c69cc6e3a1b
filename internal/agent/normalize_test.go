package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain sql passes through",
			in:   "SELECT * FROM marts.fct_orders",
			want: "SELECT * FROM marts.fct_orders",
		},
		{
			name: "whitespace stripped",
			in:   "  SELECT 1  \n",
			want: "SELECT 1",
		},
		{
			name: "symmetric fences",
			in:   "```\nSELECT * FROM t\n```",
			want: "SELECT * FROM t",
		},
		{
			name: "fences with language tag",
			in:   "```sql\nSELECT * FROM t\n```",
			want: "SELECT * FROM t",
		},
		{
			name: "missing closing fence strips only opening line",
			in:   "```sql\nSELECT * FROM t",
			want: "SELECT * FROM t",
		},
		{
			name: "multiline body preserved",
			in:   "```sql\nSELECT a,\n       b\nFROM t\n```",
			want: "SELECT a,\n       b\nFROM t",
		},
		{
			name: "closing fence with trailing whitespace",
			in:   "```sql\nSELECT 1\n``` ",
			want: "SELECT 1",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "lone fence",
			in:   "```",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSQL(tt.in))
		})
	}
}

func TestNormalizeSQL_Idempotent(t *testing.T) {
	inputs := []string{
		"SELECT * FROM marts.fct_orders",
		"```sql\nSELECT * FROM t\n```",
		"```\nSELECT 1",
		"  SELECT 2  ",
	}

	for _, in := range inputs {
		once := normalizeSQL(in)
		assert.Equal(t, once, normalizeSQL(once), "input: %q", in)
	}
}
