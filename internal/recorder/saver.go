package recorder

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"whisper-wpm-eval/internal/dataset"
)

// Uploader mirrors a saved WAV into shared storage so a dataset recorded
// on one machine can be evaluated on another. Optional.
type Uploader interface {
	UploadRecording(ctx context.Context, objectName string, data []byte) error
}

// SaveRequest carries the operator-supplied annotations for one take.
type SaveRequest struct {
	Sample     string // sample name, e.g. "sample_01_tech"
	SampleFile string // sample file name, e.g. "sample_01_tech.txt"
	SampleText string // reference text, for the word count

	Pace            string
	MicDistance     string
	BackgroundNoise string
	Notes           string
	Microphone      string
}

// Saver persists finished takes into the dataset.
type Saver struct {
	Dataset  *dataset.Store
	Uploader Uploader // nil disables uploading
}

// Save writes the take as dataset/audio/<id>.wav and appends its metadata
// line. The metadata is appended only after the audio file is fully
// written, so a crash can not leave a metadata record without audio.
func (sv *Saver) Save(sess *Session, req SaveRequest) (dataset.RecordingMetadata, error) {
	var rec dataset.RecordingMetadata

	pcm, err := sess.PCM()
	if err != nil {
		return rec, err
	}
	if len(pcm) == 0 {
		return rec, fmt.Errorf("no audio data recorded")
	}

	id := newRecordingID()
	filename := id + ".wav"
	relative := filepath.Join(sv.Dataset.AudioDir, filename)

	if err := sv.Dataset.EnsureDirs(); err != nil {
		return rec, err
	}
	if err := WriteWAV(sv.Dataset.AudioPath(relative), pcm, sess.SampleRate, sess.Channels); err != nil {
		return rec, err
	}

	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		notes = &trimmed
	}

	rec = dataset.RecordingMetadata{
		ID:              id,
		Audio:           relative,
		Sample:          req.Sample,
		SampleFile:      req.SampleFile,
		WordCount:       dataset.WordCount(req.SampleText),
		DurationSeconds: roundTo(sess.Duration(), 2),
		RecordedAt:      time.Now().Format("20060102_150405"),
		Annotations: dataset.Annotations{
			Pace:            req.Pace,
			MicDistance:     req.MicDistance,
			BackgroundNoise: req.BackgroundNoise,
			Notes:           notes,
		},
		Equipment: dataset.Equipment{
			Microphone: req.Microphone,
			SampleRate: sess.SampleRate,
			Channels:   sess.Channels,
		},
	}

	if err := sv.Dataset.AppendMetadata(rec); err != nil {
		return rec, err
	}

	if sv.Uploader != nil {
		if wavBytes, err := os.ReadFile(sv.Dataset.AudioPath(relative)); err != nil {
			log.Printf("WARNING: failed to re-read %s for upload: %v", relative, err)
		} else if err := sv.Uploader.UploadRecording(context.Background(), relative, wavBytes); err != nil {
			// The local save already succeeded; the upload can be redone.
			log.Printf("WARNING: failed to upload recording %s: %v", id, err)
		}
	}

	sess.markSaved()
	return rec, nil
}

// newRecordingID returns a short 4-hex-char identifier, enough for a
// dataset of a few hundred recordings.
func newRecordingID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:4]
}

func roundTo(v float64, decimals int) float64 {
	factor := 1.0
	for i := 0; i < decimals; i++ {
		factor *= 10
	}
	return float64(int64(v*factor+0.5)) / factor
}
