package catalog

import "testing"

func TestAllConcatenatesBothTables(t *testing.T) {
	all := All()
	if len(all) != len(Deterministic)+len(DirectOnly) {
		t.Fatalf("All() len = %d, want %d", len(all), len(Deterministic)+len(DirectOnly))
	}
	for i, spec := range Deterministic {
		if all[i] != spec {
			t.Fatalf("All()[%d] = %+v, want deterministic row %+v", i, all[i], spec)
		}
	}
}

func TestDirectOnlyEntriesAreMarkedDirect(t *testing.T) {
	for _, spec := range DirectOnly {
		if !spec.Direct {
			t.Errorf("DirectOnly entry %+v not marked Direct", spec)
		}
	}
	for _, spec := range Deterministic {
		if spec.Direct {
			t.Errorf("Deterministic entry %+v unexpectedly marked Direct", spec)
		}
	}
}

func TestAliasesReferenceExistingCanonicalEntries(t *testing.T) {
	index := make(map[string]bool)
	for _, spec := range All() {
		index[key(spec.Name, spec.Arity)] = true
	}
	for _, spec := range All() {
		if spec.Alias == "" {
			continue
		}
		if !aliasTargetExists(spec.Alias, index) {
			t.Errorf("alias %q on %s/%d has no matching canonical catalog entry", spec.Alias, spec.Name, spec.Arity)
		}
	}
}

func TestNoDuplicateNameArityAmongCanonicalEntries(t *testing.T) {
	seen := make(map[string]bool)
	for _, spec := range All() {
		if spec.Alias != "" {
			continue
		}
		k := key(spec.Name, spec.Arity)
		if seen[k] {
			t.Errorf("duplicate canonical catalog entry for %s/%d", spec.Name, spec.Arity)
		}
		seen[k] = true
	}
}

func key(name string, arity int) string {
	return name + "@" + itoa(arity)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// aliasTargetExists parses a "Name@Arity" alias string against the set of
// known "Name@Arity" keys built by the test, mirroring the Name@Arity
// convention documented on FunctionSpec.Alias.
func aliasTargetExists(alias string, index map[string]bool) bool {
	return index[alias]
}
