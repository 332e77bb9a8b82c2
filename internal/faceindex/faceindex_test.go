package faceindex

import "testing"

func TestQualityFilterMinConfidence(t *testing.T) {
	cases := []struct {
		filter QualityFilter
		want   float32
	}{
		{QualityNone, 0},
		{QualityLow, 0.3},
		{QualityAuto, 0.5},
		{QualityMedium, 0.5},
		{QualityHigh, 0.8},
		{QualityFilter(""), 0.5},
	}
	for _, c := range cases {
		if got := c.filter.MinConfidence(); got != c.want {
			t.Errorf("MinConfidence(%q) = %v, want %v", c.filter, got, c.want)
		}
	}
}

func TestImageRef(t *testing.T) {
	byRef := FromObject("user_avatar_7.jpeg")
	if byRef.ObjectKey != "user_avatar_7.jpeg" || byRef.Bytes != nil {
		t.Errorf("FromObject built %+v", byRef)
	}

	byBytes := FromBytes([]byte{1, 2, 3})
	if byBytes.ObjectKey != "" || len(byBytes.Bytes) != 3 {
		t.Errorf("FromBytes built %+v", byBytes)
	}
}
