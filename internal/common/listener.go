package common

import (
	"fmt"
	"net"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"
)

// Listen returns the socket a service should accept connections on. If
// systemd passed a socket named name (FileDescriptorName= in the socket unit),
// it is used; this is how the portal gets port 80 without running as root.
// Otherwise a TCP listener is opened on addr.
func Listen(logger logrus.FieldLogger, name, addr string) (net.Listener, error) {
	listeners, err := activation.ListenersWithNames()
	if err != nil {
		return nil, fmt.Errorf("cannot get systemd sockets: %w", err)
	}

	if named, ok := listeners[name]; ok && len(named) > 0 {
		if len(named) != 1 {
			return nil, fmt.Errorf("unexpected number of sockets for %s (%d), expected 1", name, len(named))
		}
		logger.Infof("using socket %s passed by systemd", name)
		return named[0], nil
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on %s: %w", addr, err)
	}
	return l, nil
}

// NotifyReady tells systemd the service is up. Outside of systemd it does
// nothing.
func NotifyReady(logger logrus.FieldLogger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warnf("cannot notify systemd: %v", err)
		return
	}
	if sent {
		logger.Debug("notified systemd about readiness")
	}
}

// NotifyStopping tells systemd the service is shutting down.
func NotifyStopping() {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
}
