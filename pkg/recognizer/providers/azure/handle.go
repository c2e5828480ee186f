package azure

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
	"github.com/sirupsen/logrus"
)

const stopTimeout = 5 * time.Second

var errStopTimeout = errors.New("timed out waiting for recognizer to stop")

// handle owns one push stream and recognizer pair.
type handle struct {
	log        *logrus.Entry
	autoDetect bool

	speechConfig *speech.SpeechConfig
	langConfig   *speech.AutoDetectSourceLanguageConfig
	pushStream   *audio.PushAudioInputStream
	audioConfig  *audio.AudioConfig
	recognizer   *speech.SpeechRecognizer

	mu      sync.Mutex
	started bool
	stopped bool
	closed  bool
}

func (h *handle) Start(onStarted func(), onFailed func(error)) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		go onFailed(recognizer.ErrHandleClosed)
		return
	}
	h.started = true
	h.mu.Unlock()

	go func() {
		if err := <-h.recognizer.StartContinuousRecognitionAsync(); err != nil {
			h.log.WithError(err).Errorln("error starting continuous recognition")
			onFailed(err)
			return
		}
		h.log.Infoln("continuous recognition started")
		onStarted()
	}()
}

// Feed writes PCM bytes into the push stream.
func (h *handle) Feed(p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return recognizer.ErrHandleClosed
	}
	return h.pushStream.Write(p)
}

// Stop ends continuous recognition. Callbacks may still fire while it runs.
func (h *handle) Stop() error {
	h.mu.Lock()
	if !h.started || h.stopped || h.closed {
		h.mu.Unlock()
		return nil
	}
	h.stopped = true
	h.mu.Unlock()

	select {
	case err := <-h.recognizer.StopContinuousRecognitionAsync():
		if err != nil {
			return fmt.Errorf("stop continuous recognition: %w", err)
		}
		return nil
	case <-time.After(stopTimeout):
		return errStopTimeout
	}
}

func (h *handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.release()
	h.log.Debugln("recognizer released")
	return nil
}

// release frees every native object that was created, in reverse order.
func (h *handle) release() {
	if h.pushStream != nil {
		h.pushStream.Close()
	}
	if h.recognizer != nil {
		h.recognizer.Close()
	}
	if h.langConfig != nil {
		h.langConfig.Close()
	}
	if h.audioConfig != nil {
		h.audioConfig.Close()
	}
	if h.speechConfig != nil {
		h.speechConfig.Close()
	}
}
