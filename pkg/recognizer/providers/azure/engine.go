package azure

import (
	"fmt"
	"strconv"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
	"github.com/sirupsen/logrus"
)

// Engine creates Azure continuous recognizers fed through a push stream.
type Engine struct {
	creds  config.CredentialsConfig
	logger *logrus.Entry
}

func New(creds config.CredentialsConfig, logger *logrus.Logger) *Engine {
	return &Engine{
		creds:  creds,
		logger: logger.WithField("service", "azure-speech"),
	}
}

func (e *Engine) NewHandle(opts recognizer.Options, dispatch recognizer.Dispatch) (recognizer.Handle, error) {
	if err := e.creds.Validate(); err != nil {
		return nil, err
	}

	h := &handle{
		log: e.logger.WithFields(logrus.Fields{
			"language":   opts.Language,
			"autoDetect": opts.AutoDetect,
		}),
		autoDetect: opts.AutoDetect,
	}
	if err := h.build(e.creds, opts); err != nil {
		h.release()
		return nil, err
	}
	h.register(dispatch)
	return h, nil
}

func (h *handle) build(creds config.CredentialsConfig, opts recognizer.Options) error {
	cnf, err := speech.NewSpeechConfigFromSubscription(creds.APIKey, creds.Region)
	if err != nil {
		return fmt.Errorf("could not create speech config: %w", err)
	}
	h.speechConfig = cnf

	if !opts.AutoDetect {
		if err = cnf.SetSpeechRecognitionLanguage(opts.Language); err != nil {
			return err
		}
	}
	props := map[common.PropertyID]string{
		common.SpeechServiceConnectionInitialSilenceTimeoutMs:     strconv.Itoa(opts.InitialSilenceTimeoutMs),
		common.SpeechServiceConnectionEndSilenceTimeoutMs:         strconv.Itoa(opts.EndSilenceTimeoutMs),
		common.SpeechServiceResponseRequestDetailedResultTrueFalse: strconv.FormatBool(opts.DetailedResult),
	}
	for id, value := range props {
		if err = cnf.SetProperty(id, value); err != nil {
			return fmt.Errorf("could not set speech property %d: %w", id, err)
		}
	}

	format, err := audio.GetWaveFormatPCM(config.AudioSampleRate, config.AudioBitsPerSample, config.AudioChannels)
	if err != nil {
		return fmt.Errorf("could not create audio format: %w", err)
	}
	defer format.Close()

	h.pushStream, err = audio.CreatePushAudioInputStreamFromFormat(format)
	if err != nil {
		return fmt.Errorf("could not create push stream: %w", err)
	}
	h.audioConfig, err = audio.NewAudioConfigFromStreamInput(h.pushStream)
	if err != nil {
		return fmt.Errorf("could not create audio config: %w", err)
	}

	if opts.AutoDetect {
		h.langConfig, err = speech.NewAutoDetectSourceLanguageConfigFromLanguages(opts.AutoDetectCandidates)
		if err != nil {
			return fmt.Errorf("could not create auto detect config: %w", err)
		}
		h.recognizer, err = speech.NewSpeechRecognizerFomAutoDetectSourceLangConfig(cnf, h.langConfig, h.audioConfig)
	} else {
		h.recognizer, err = speech.NewSpeechRecognizerFromConfig(cnf, h.audioConfig)
	}
	if err != nil {
		return fmt.Errorf("could not create recognizer: %w", err)
	}
	return nil
}

// register wires the four callbacks the session relies on. Nothing else is subscribed.
func (h *handle) register(dispatch recognizer.Dispatch) {
	h.recognizer.Recognizing(func(e speech.SpeechRecognitionEventArgs) {
		defer e.Close()
		dispatch(recognizer.Event{
			Kind:             recognizer.EventRecognizing,
			Text:             e.Result.Text,
			DetectedLanguage: h.detectedLanguage(&e.Result),
		})
	})

	h.recognizer.Recognized(func(e speech.SpeechRecognitionEventArgs) {
		defer e.Close()
		ev := recognizer.Event{
			Kind:             recognizer.EventRecognized,
			DetectedLanguage: h.detectedLanguage(&e.Result),
		}
		if e.Result.Reason == common.RecognizedSpeech {
			ev.Text = e.Result.Text
		} else {
			h.log.WithField("reason", e.Result.Reason.String()).Debugln("no speech recognized")
		}
		dispatch(ev)
	})

	h.recognizer.Canceled(func(e speech.SpeechRecognitionCanceledEventArgs) {
		defer e.Close()
		ev := recognizer.Event{
			Kind:         recognizer.EventCanceled,
			ErrorDetails: e.ErrorDetails,
		}
		switch e.Reason {
		case common.EndOfStream:
			ev.CancelReason = recognizer.CancelEndOfStream
		case common.CancelledByUser:
			ev.CancelReason = recognizer.CancelByUser
		default:
			ev.CancelReason = recognizer.CancelError
		}
		dispatch(ev)
	})

	h.recognizer.SessionStopped(func(e speech.SessionEventArgs) {
		defer e.Close()
		dispatch(recognizer.Event{Kind: recognizer.EventSessionStopped})
	})
}

func (h *handle) detectedLanguage(result *speech.SpeechRecognitionResult) string {
	if !h.autoDetect {
		return ""
	}
	return result.Properties.GetProperty(common.SpeechServiceConnectionAutoDetectSourceLanguageResult, "")
}
