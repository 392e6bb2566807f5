package perf

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// payloadSource yields the value of the next record
type payloadSource func() []byte

// newPayloadSource returns a source that repeats one random record of
// RecordSize bytes, or picks a random entry of the payload file per record.
func newPayloadSource(o Options, rng *rand.Rand) (payloadSource, error) {
	if o.PayloadFile == "" {
		payload := randomPayload(o.RecordSize, rng)
		return func() []byte { return payload }, nil
	}

	payloads, err := readPayloads(o.PayloadFile, o.PayloadDelimiter)
	if err != nil {
		return nil, err
	}
	return func() []byte { return payloads[rng.Intn(len(payloads))] }, nil
}

// randomPayload fills size bytes with uppercase ASCII letters
func randomPayload(size int, rng *rand.Rand) []byte {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte('A' + rng.Intn(26))
	}
	return payload
}

// readPayloads splits the file by delimiter, dropping empty entries
func readPayloads(path, delimiter string) ([][]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read payload file: %w", err)
	}
	if delimiter == "" {
		delimiter = "\n"
	}

	var payloads [][]byte
	for _, p := range strings.Split(string(data), delimiter) {
		if p == "" {
			continue
		}
		payloads = append(payloads, []byte(p))
	}
	if len(payloads) == 0 {
		return nil, errors.New("payload file does not contain any payload")
	}
	return payloads, nil
}
