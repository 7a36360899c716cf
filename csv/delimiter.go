package csv

import (
	"bufio"
	"io"

	"hermannm.dev/wrap"
)

var DefaultDelimitersToCheck = []rune{',', ';', '\t', '|'}

// Used when no candidate delimiter appears in the sampled lines, e.g. for single-column files.
const fallbackDelimiter = ','

// DeduceFieldDelimiter picks the candidate delimiter that splits the first lines of the file most
// consistently. A delimiter that appears the same number of times on every line is preferred
// over one with varying counts, and higher counts are preferred over lower ones.
func DeduceFieldDelimiter(
	csvFile io.ReadSeeker,
	maxRowsToCheck int,
	delimitersToCheck []rune,
) (delimiter rune, err error) {
	// Resets reader position in file before returning, so its data can be read subsequently
	defer func() {
		if _, seekErr := csvFile.Seek(0, io.SeekStart); seekErr != nil {
			err = wrap.Error(seekErr, "failed to reset CSV reader after deducing field delimiter")
		}
	}()

	if len(delimitersToCheck) == 0 {
		delimitersToCheck = DefaultDelimitersToCheck
	}

	candidates := newDelimiterCandidateList(delimitersToCheck)

	scanner := bufio.NewScanner(csvFile)
	for linesChecked := 0; linesChecked < maxRowsToCheck && scanner.Scan(); {
		line := scanner.Text()
		if line == "" {
			continue
		}

		for i := range candidates {
			candidates[i].updateCounts(line)
		}
		linesChecked++
	}
	if err := scanner.Err(); err != nil {
		return 0, wrap.Error(err, "failed to read CSV file to deduce field delimiter")
	}

	return candidates.getBestCandidate(), nil
}

type delimiterCandidate struct {
	delimiter    rune
	highestCount int
	lowestCount  int
}

func (candidate *delimiterCandidate) updateCounts(line string) {
	count := 0
	inQuotes := false
	for _, char := range line {
		switch {
		case char == '"':
			inQuotes = !inQuotes
		case char == candidate.delimiter && !inQuotes:
			count++
		}
	}

	if candidate.highestCount == -1 || candidate.highestCount < count {
		candidate.highestCount = count
	}
	if candidate.lowestCount == -1 || candidate.lowestCount > count {
		candidate.lowestCount = count
	}
}

func (candidate delimiterCandidate) isConsistent() bool {
	return candidate.highestCount == candidate.lowestCount
}

type delimiterCandidateList []delimiterCandidate

func newDelimiterCandidateList(delimitersToCheck []rune) delimiterCandidateList {
	list := make([]delimiterCandidate, 0, len(delimitersToCheck))

	for _, delimiter := range delimitersToCheck {
		list = append(
			list,
			delimiterCandidate{delimiter: delimiter, highestCount: -1, lowestCount: -1},
		)
	}

	return list
}

func (list delimiterCandidateList) getBestCandidate() rune {
	best := delimiterCandidate{delimiter: fallbackDelimiter, highestCount: 0, lowestCount: 0}

	for _, candidate := range list {
		if candidate.highestCount <= 0 {
			continue
		}

		consistentAndHigher := candidate.isConsistent() && best.isConsistent() &&
			candidate.highestCount > best.highestCount

		moreConsistent := candidate.isConsistent() && !best.isConsistent()

		inconsistentButHigher := !candidate.isConsistent() && !best.isConsistent() &&
			candidate.highestCount > best.highestCount &&
			(candidate.lowestCount != 0 || best.lowestCount == 0)

		if best.highestCount == 0 || consistentAndHigher || moreConsistent ||
			inconsistentButHigher {
			best = candidate
		}
	}

	return best.delimiter
}
