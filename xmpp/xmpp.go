package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

var ErrMissingConfig = errors.New("missing xmpp config")

type (
	// Config of the chat account race summaries are sent from.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

func serverName(jid string) string {
	parts := strings.Split(jid, "@")
	return parts[len(parts)-1]
}

// Enabled reports whether enough is configured to send messages.
func (x Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

func (x Xmpp) options() xmpp.Options {
	host := x.Config.Host
	if len(host) == 0 {
		host = serverName(x.Config.Jid)
	}
	return xmpp.Options{
		Host:          host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Race trainer",
	}
}

func (x Xmpp) Send(message string) error {
	if !x.Enabled() {
		log.Warn("Missing xmpp config")
		return ErrMissingConfig
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := x.options()
	log.WithFields(log.Fields{"host": options.Host, "user": options.User}).Debug("Create xmpp client")
	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("Error creating xmpp client")
		return err
	}
	defer talk.Close()

	log.WithField("to", x.Config.To).Debug("Send message")
	_, err = talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})
	return err
}
