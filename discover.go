package rispc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// isaSuffixes are the object-name suffixes ispc appends when it specializes
// a module for more than one ISA. The compiler decides internally which
// specializations a module needs and emits no manifest, so the produced set
// has to be reconciled by probing the filesystem after it exits.
var isaSuffixes = []string{"_sse2", "_sse4", "_avx", "_avx11", "_avx2"}

// discoverObjects returns the object files that actually exist on disk for
// one compiled source file: the primary object at obj plus any ISA-suffixed
// variants beside it. Missing candidates are skipped; every probe is logged.
func discoverObjects(env env, obj string) []string {
	ext := filepath.Ext(obj)
	stem := strings.TrimSuffix(obj, ext)

	candidates := make([]string, 0, len(isaSuffixes)+1)
	candidates = append(candidates, obj)
	for _, suffix := range isaSuffixes {
		candidates = append(candidates, stem+suffix+ext)
	}

	var objects []string
	for _, candidate := range candidates {
		_, err := os.Stat(candidate)
		exists := err == nil
		fmt.Fprintf(env.stdout(), "candidate %q exists=%v\n", candidate, exists)
		if exists {
			objects = append(objects, candidate)
		}
	}
	return objects
}
