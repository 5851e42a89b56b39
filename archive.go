package rispc

// arBuilder accumulates discovered object files and bundles them into one
// static archive by delegating to the native ar tool (overridable via the AR
// environment variable). Members are passed through as-is: no deduplication,
// and no ordering guarantee beyond the order objects were added.
type arBuilder struct {
	env     env
	archive string
	objects []string
}

func newArBuilder(env env, archive string) *arBuilder {
	return &arBuilder{env: env, archive: archive}
}

func (b *arBuilder) addObject(path string) {
	b.objects = append(b.objects, path)
}

// finish writes the archive. Called once, after every object has been added.
func (b *arBuilder) finish() error {
	path := "ar"
	if override, ok := logGetenv(b.env, "AR"); ok {
		path = override
	}
	args := make([]string, 0, len(b.objects)+2)
	args = append(args, "crus", b.archive)
	args = append(args, b.objects...)
	return runTool(b.env, &command{path: path, args: args})
}
