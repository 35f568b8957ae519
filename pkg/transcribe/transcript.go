package transcribe

import "strings"

// Segment is one timestamped span of transcribed text. Within a single
// transcript, starts are non-decreasing and End >= Start.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the result of transcribing one file, or the merged result
// of several chunks. Duration is the sum of the source files' reported
// durations and is used as the re-basing offset during assembly.
type Transcript struct {
	Text     string    `json:"text"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Assemble merges per-chunk transcripts, in submission order, into one
// time-coherent transcript. Each chunk reports timestamps relative to its
// own start, so every segment is shifted by the cumulative duration of the
// preceding chunks.
func Assemble(chunks []Transcript) Transcript {
	var out Transcript
	out.Segments = make([]Segment, 0)

	var texts []string
	offset := 0.0
	for _, chunk := range chunks {
		for _, seg := range chunk.Segments {
			out.Segments = append(out.Segments, Segment{
				Start: offset + seg.Start,
				End:   offset + seg.End,
				Text:  seg.Text,
			})
		}
		texts = append(texts, chunk.Text)
		offset += chunk.Duration
	}

	out.Text = strings.Join(texts, " ")
	out.Duration = offset
	return out
}
