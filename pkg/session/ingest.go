package session

import (
	"bytes"
	"encoding/binary"

	"github.com/alaaharoun/livetranslate-server/pkg/metrics"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// Containers identified by a magic header. Frame-sync based formats such as
// mp3 and adts are left out since raw PCM samples can look like a sync word.
var compressedExtensions = map[string]struct{}{
	".webm": {},
	".ogg":  {},
	".ogx":  {},
	".oga":  {},
	".opus": {},
	".flac": {},
	".m4a":  {},
	".mp4":  {},
	".amr":  {},
}

// IngestStats counts the frames offered to a single handle.
type IngestStats struct {
	Frames  int64
	Bytes   int64
	Dropped int64
}

// ingest forwards frames to the current handle in arrival order.
// It is owned by the controller loop and holds nothing across a handle swap.
type ingest struct {
	log   *logrus.Entry
	stats IngestStats
}

func (in *ingest) reset() IngestStats {
	prev := in.stats
	in.stats = IngestStats{}
	return prev
}

func (in *ingest) drop(reason string) {
	in.stats.Dropped++
	metrics.DroppedFrames.WithLabelValues(reason).Inc()
}

// feed validates frame and writes it to h. It returns false when nothing was fed.
func (in *ingest) feed(h recognizer.Handle, frame []byte) bool {
	if len(frame) == 0 {
		in.log.Debugln("dropping zero-length audio frame")
		in.drop(metrics.DropEmpty)
		return false
	}

	pcm, ok := in.extractPCM(frame)
	if !ok {
		in.drop(metrics.DropUnsupported)
		return false
	}
	if len(pcm) == 0 {
		in.log.Debugln("dropping audio frame without samples")
		in.drop(metrics.DropEmpty)
		return false
	}

	if err := h.Feed(pcm); err != nil {
		in.log.WithError(err).Warnln("failed to feed audio frame")
		in.drop(metrics.DropFeedFailed)
		return false
	}
	in.stats.Frames++
	in.stats.Bytes += int64(len(pcm))
	return true
}

func (in *ingest) extractPCM(frame []byte) ([]byte, bool) {
	mtype := mimetype.Detect(frame)
	ext := mtype.Extension()

	if ext == ".wav" {
		return wavPayload(frame), true
	}
	if _, found := compressedExtensions[ext]; found {
		in.log.WithField("mime", mtype.String()).Warnln("dropping compressed audio frame, raw 16kHz mono PCM expected")
		return nil, false
	}
	return frame, true
}

// wavPayload returns the bytes of the data chunk of a RIFF/WAVE buffer.
// A truncated chunk yields whatever samples are present.
func wavPayload(b []byte) []byte {
	if len(b) < 12 || !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return b
	}
	pos := 12
	for pos+8 <= len(b) {
		id := b[pos : pos+4]
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		pos += 8
		if bytes.Equal(id, []byte("data")) {
			end := pos + size
			if size < 0 || end > len(b) {
				end = len(b)
			}
			return b[pos:end]
		}
		// chunks are word aligned
		pos += size + size%2
	}
	return nil
}
