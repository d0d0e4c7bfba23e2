package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{"bool true", `true`, Value{Kind: KindBool, Bool: true}},
		{"bool false", `false`, Value{Kind: KindBool, Bool: false}},
		{"number", `2`, Value{Kind: KindNumber, Num: 2}},
		{"float number", `0.5`, Value{Kind: KindNumber, Num: 0.5}},
		{"numeric string", `"3"`, Value{Kind: KindString, Str: "3"}},
		{"verbal string", `"Yes"`, Value{Kind: KindString, Str: "Yes"}},
		{"null", `null`, Value{}},
		{"object degrades to absent", `{"count":2}`, Value{}},
		{"array degrades to absent", `[1,2]`, Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestValue_Positive(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"bool true", Value{Kind: KindBool, Bool: true}, true},
		{"bool false", Value{Kind: KindBool, Bool: false}, false},
		{"positive number", Value{Kind: KindNumber, Num: 1}, true},
		{"zero number", Value{Kind: KindNumber, Num: 0}, false},
		{"negative number", Value{Kind: KindNumber, Num: -1}, false},
		{"yes any case", Value{Kind: KindString, Str: "YES"}, true},
		{"true string", Value{Kind: KindString, Str: "True"}, true},
		{"numeric string", Value{Kind: KindString, Str: "2"}, true},
		{"zero string", Value{Kind: KindString, Str: "0"}, false},
		{"negative string", Value{Kind: KindString, Str: "-3"}, false},
		{"leading integer with garbage", Value{Kind: KindString, Str: "3 audits"}, true},
		{"non numeric string", Value{Kind: KindString, Str: "audited"}, false},
		{"absent", Value{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Positive())
		})
	}
}

func TestIsAudited_AllowList(t *testing.T) {
	absent := Value{}

	tests := []struct {
		name    string
		project string
		want    bool
	}{
		{"exact slug", "aave", true},
		{"versioned project contains slug", "aave-v3", true},
		{"spaces normalized to hyphen", "Mountain Protocol", true},
		{"allow list entry contains project", "ethena", true},
		{"unknown project", "degen-farm", false},
		{"empty project", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAudited(absent, tt.project))
		})
	}
}

func TestIsAudited_FieldWinsOverAllowList(t *testing.T) {
	// A positive field marks even an unknown project as audited.
	assert.True(t, IsAudited(Value{Kind: KindString, Str: "yes"}, "degen-farm"))

	// A non-positive field still falls through to the allow-list.
	assert.True(t, IsAudited(Value{Kind: KindNumber, Num: 0}, "curve-dex"))
}
