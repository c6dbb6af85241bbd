// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package version

import (
	"strings"
	"testing"
)

func TestPoweredBy(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	if got := PoweredBy(); got != "pygeoregister 1.2.3" {
		t.Errorf("PoweredBy() = %q, want %q", got, "pygeoregister 1.2.3")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "pygeoregister ") {
		t.Errorf("String() = %q, want pygeoregister prefix", s)
	}
	if !strings.Contains(s, "commit=") {
		t.Errorf("String() = %q, want commit field", s)
	}
}
