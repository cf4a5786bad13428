package anonymize

import (
	"fmt"
	"strings"

	"github.com/carbocation/dicomanon"
)

// Pair associates one input with the output it is anonymized into.
type Pair struct {
	Input  string
	Output string
}

// ParsePairs zips a comma-separated list of inputs with a comma-separated list
// of outputs. The lists must have the same number of entries.
func ParsePairs(inputs, outputs string) ([]Pair, error) {
	inputList, err := splitList("input", inputs)
	if err != nil {
		return nil, err
	}

	outputList, err := splitList("output", outputs)
	if err != nil {
		return nil, err
	}

	if len(inputList) != len(outputList) {
		return nil, &ArgumentError{Msg: fmt.Sprintf("got %d input paths but %d output paths", len(inputList), len(outputList))}
	}

	pairs := make([]Pair, 0, len(inputList))
	for i := range inputList {
		if inputList[i] == outputList[i] {
			return nil, &ArgumentError{Msg: fmt.Sprintf("entry %d: output %s would overwrite its own input", i+1, outputList[i])}
		}
		pairs = append(pairs, Pair{Input: inputList[i], Output: outputList[i]})
	}

	return pairs, nil
}

func splitList(kind, list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, &ArgumentError{Msg: fmt.Sprintf("no %s paths were given", kind)}
	}

	var out []string
	for i, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, &ArgumentError{Msg: fmt.Sprintf("%s entry %d is empty", kind, i+1)}
		}
		if !dicomanon.IsGoogleStoragePath(entry) {
			entry = dicomanon.ExpandHome(entry)
		}
		out = append(out, entry)
	}

	return out, nil
}
