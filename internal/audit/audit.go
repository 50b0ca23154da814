package audit

import (
	"fmt"
	"sync"
)

var (
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex
	enabled      bool
)

// Init installs w as the global audit writer. A nil writer disables
// audit logging.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}

	globalWriter = w
	enabled = true
	return nil
}

// InitFile installs a file writer at path, or disables audit logging
// when path is empty.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}

	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	return Init(w)
}

// Close flushes and detaches the global writer. Logging is disabled
// afterwards until the next Init.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalWriter != nil {
		err := globalWriter.Close()
		globalWriter = NopWriter{}
		enabled = false
		return err
	}
	return nil
}

// Enabled returns whether audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes an audit event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog writes an audit event. A write failure is returned wrapped so
// the caller can fail its own operation: an OCSP action that cannot be
// recorded must not be reported as done.
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

// LogRequestCreated logs an OCSP request build event.
func LogRequestCreated(serial, algorithm, path string, success bool) error {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}

	event := NewEvent(EventRequestCreated, result).
		WithObject(Object{
			Type:   "request",
			Serial: serial,
			Path:   path,
		}).
		WithContext(Context{
			Algorithm: algorithm,
		})

	return MustLog(event)
}

// LogResponseSigned logs a signed response event.
func LogResponseSigned(serial, certStatus, algorithm, responder string, success bool) error {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}

	event := NewEvent(EventResponseSigned, result).
		WithObject(Object{
			Type:   "response",
			Serial: serial,
		}).
		WithContext(Context{
			Status:    certStatus,
			Algorithm: algorithm,
			Responder: responder,
		})

	return MustLog(event)
}

// LogResponseError logs an unsuccessful response event.
func LogResponseError(status, reason string) error {
	event := NewEvent(EventResponseError, ResultSuccess).
		WithObject(Object{
			Type: "response",
		}).
		WithContext(Context{
			Status: status,
			Reason: reason,
		})

	return MustLog(event)
}

// LogResponseVerified logs a response verification event.
func LogResponseVerified(serial, responder string, verified bool) error {
	result := ResultSuccess
	if !verified {
		result = ResultFailure
	}

	event := NewEvent(EventResponseVerified, result).
		WithObject(Object{
			Type:   "response",
			Serial: serial,
		}).
		WithContext(Context{
			Responder: responder,
			Verified:  verified,
		})

	return MustLog(event)
}

// LogResponderAnswered logs a processed responder request.
func LogResponderAnswered(serial, responseStatus, certStatus string, success bool) error {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}

	event := NewEvent(EventResponderAnswered, result).
		WithObject(Object{
			Type:   "response",
			Serial: serial,
		}).
		WithContext(Context{
			Status: responseStatus,
			Reason: certStatus,
		})

	return MustLog(event)
}
