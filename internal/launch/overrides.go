package launch

import "fmt"

// Override is a single key=value configuration override for the external
// scoring and caching entry points.
type Override struct {
	Key   string
	Value string
}

// Overrides is an ordered set of configuration overrides. Order is
// preserved so the rendered argument list is deterministic.
type Overrides []Override

// Add appends an override and returns the extended set.
func (o Overrides) Add(key, value string) Overrides {
	return append(o, Override{Key: key, Value: value})
}

// Args renders the overrides as key=value argument strings.
func (o Overrides) Args() []string {
	args := make([]string, 0, len(o))
	for _, ov := range o {
		args = append(args, fmt.Sprintf("%s=%s", ov.Key, ov.Value))
	}
	return args
}
