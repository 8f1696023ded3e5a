package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// FileName is the log file created inside the state directory
const FileName = "devmatch.log"

// Setup points the standard logrus logger at dir/devmatch.log. Verbose
// mode logs at debug level and mirrors to stderr. The returned closer
// releases the log file.
func Setup(dir string, verbose bool) (io.Closer, error) {
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		log.Warnf("unable to create folder for log %s", err)
		return nopCloser{}, nil
	}

	file, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	if verbose {
		log.SetOutput(io.MultiWriter(file, os.Stderr))
	} else {
		log.SetOutput(file)
	}

	log.Debugf("logging to %s", file.Name())
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
