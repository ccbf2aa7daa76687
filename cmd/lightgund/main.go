// Command lightgund is the host-side driver daemon: it owns the
// serial link to the light gun, the authenticated protocol session,
// and the per-frame vision pipeline an external camera source drives
// through program.ProcessFrame. It is installable as an OS service,
// grounded on the teacher's passlink_peripheral_service.go
// service.Service wiring.
package main

import (
	"os"
	"os/signal"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
}

func main() {
	svcConfig := &service.Config{
		Name:        "lightgund",
		DisplayName: "Light Gun Driver",
		Description: "Host-side driver for the USB/serial light gun peripheral: serial protocol session and vision pipeline.",
	}

	logger := logrus.NewEntry(logrus.StandardLogger()).WithField("component", "lightgund")
	prg := &program{logger: logger}
	s, err := service.New(prg, svcConfig)
	if err != nil {
		logger.WithError(err).Fatal("creating service")
	}

	if len(os.Args) > 1 {
		if err := service.Control(s, os.Args[1]); err != nil {
			logger.WithError(err).Fatal("service command failed")
		}
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		_ = s.Stop()
	}()

	if err := s.Run(); err != nil {
		logger.WithError(err).Fatal("service run")
	}
}
