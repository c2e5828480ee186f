package session

import "errors"

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrEngineStart        = errors.New("engine start error")
	ErrEngineRuntime      = errors.New("engine runtime error")
	ErrTransport          = errors.New("transport error")
	ErrControllerClosed   = errors.New("session controller is closed")
	ErrUnsupportedMessage = errors.New("unsupported message type")
)
