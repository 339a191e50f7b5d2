package preset

import "strconv"

// Canonical parameter order matches the silence analyzer argv.
const (
	ParamThresh = iota
	ParamMinQuiet
	ParamMinDetect
	ParamMinBreak
	ParamMaxSep
	ParamPad
	numParams
)

var paramNames = [numParams]string{
	"thresh",
	"minquiet",
	"mindetect",
	"minbreak",
	"maxsep",
	"pad",
}

var paramDefaults = [numParams]float64{-75, 0.16, 6, 120, 120, 0.48}

// Param is a named detection parameter with its resolved value.
type Param struct {
	Name  string
	Value float64
}

// Store holds the resolved value for every detection parameter. The
// zero value is not useful; construct with Defaults. Store is a plain
// value and is compared with ==.
type Store struct {
	values [numParams]float64
}

// Defaults returns a Store populated with the built-in parameter values.
func Defaults() Store {
	return Store{values: paramDefaults}
}

// Value returns the resolved value for the given canonical index.
func (s Store) Value(index int) float64 {
	return s.values[index]
}

// Params returns all parameters in canonical order.
func (s Store) Params() []Param {
	params := make([]Param, numParams)
	for i, name := range paramNames {
		params[i] = Param{Name: name, Value: s.values[i]}
	}
	return params
}

// Args returns the stringified parameter values in canonical order,
// suitable as positional arguments for the analyzer.
func (s Store) Args() []string {
	args := make([]string, numParams)
	for i, v := range s.values {
		args[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return args
}
