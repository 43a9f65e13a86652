/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestJSONRoundTrip(t *testing.T) {
	for _, s := range []string{"3", "3.8", "3.8.5", "11.0"} {
		data, err := json.Marshal(MustParse(s))
		if err != nil {
			t.Fatalf("marshal %q: %v", s, err)
		}
		if string(data) != `"`+s+`"` {
			t.Errorf("marshal %q = %s, want %q", s, data, s)
		}

		var v Version
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if !v.Equals(MustParse(s)) || v.Precision != MustParse(s).Precision {
			t.Errorf("round trip %q = %+v", s, v)
		}
	}
}

func TestJSONUnmarshalInvalid(t *testing.T) {
	var v Version
	if err := json.Unmarshal([]byte(`{"major": 3}`), &v); err == nil {
		t.Error("expected error for non-string version")
	}
	if err := json.Unmarshal([]byte(`"3.8.x"`), &v); err == nil {
		t.Error("expected error for malformed version")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(MustParse("11.0"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v Version
	if err := yaml.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if v.String() != "11.0" || v.Precision != 2 {
		t.Errorf("round trip = %+v, want 11.0 at precision 2", v)
	}
}
