package radio

import (
	"bytes"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"k8s.io/utils/clock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Header identifies the sender of a frame.
type Header struct {
	Board     int
	Repeater  bool
	Timestamp int64
}

// Frame encodes a payload as "<board>,<repeater>,<unix-seconds>,<json array>"
// with no whitespace.
func Frame(h Header, payload []float64) ([]byte, error) {
	if payload == nil {
		payload = []float64{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	repeater := 0
	if h.Repeater {
		repeater = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d,%d,%d,", h.Board, repeater, h.Timestamp)
	buf.Write(data)
	return buf.Bytes(), nil
}

// Parse decodes a frame produced by Frame.
func Parse(frame []byte) (Header, []float64, error) {
	parts := bytes.SplitN(frame, []byte(","), 4)
	if len(parts) != 4 {
		return Header{}, nil, fmt.Errorf("malformed frame %q: want 4 fields, got %d", frame, len(parts))
	}

	board, err := strconv.Atoi(string(parts[0]))
	if err != nil {
		return Header{}, nil, fmt.Errorf("malformed board id: %w", err)
	}
	repeater, err := strconv.Atoi(string(parts[1]))
	if err != nil {
		return Header{}, nil, fmt.Errorf("malformed repeater flag: %w", err)
	}
	ts, err := strconv.ParseInt(string(parts[2]), 10, 64)
	if err != nil {
		return Header{}, nil, fmt.Errorf("malformed timestamp: %w", err)
	}

	var payload []float64
	if err := json.Unmarshal(parts[3], &payload); err != nil {
		return Header{}, nil, fmt.Errorf("malformed payload: %w", err)
	}

	return Header{Board: board, Repeater: repeater != 0, Timestamp: ts}, payload, nil
}

// Framer stamps frames with this node's identity and the current time.
type Framer struct {
	Board    int
	Repeater bool
	Clock    clock.PassiveClock
}

// Frame encodes payload with a header for now.
func (f Framer) Frame(payload []float64) ([]byte, error) {
	clk := f.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	return Frame(Header{Board: f.Board, Repeater: f.Repeater, Timestamp: clk.Now().Unix()}, payload)
}
