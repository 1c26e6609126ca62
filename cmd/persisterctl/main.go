// Command persisterctl is a small inspection and append tool for a log
// managed by package persist; it is supplemental to the library, not part
// of its core surface.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		log.WithError(err).Error("persisterctl failed")
		os.Exit(1)
	}
}
