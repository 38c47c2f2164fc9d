package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/martingh15/proyecto-backend/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNoConfigurado is returned when SMTP_HOST is empty.
var ErrMailerNoConfigurado = errors.New("mailer: SMTP no configurado")

// Mensaje is one outgoing e-mail.
type Mensaje struct {
	Para    string `json:"para"`
	Asunto  string `json:"asunto"`
	Texto   string `json:"texto"`
	HTML    string `json:"html,omitempty"`
	Adjunto []byte `json:"adjunto,omitempty"`
	Nombre  string `json:"nombre_adjunto,omitempty"`
}

// Enviador delivers a built e-mail. Replaced in tests.
type Enviador interface {
	Send(e *email.Email, addr string, auth smtp.Auth) error
}

type smtpEnviador struct{}

func (smtpEnviador) Send(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// Mailer sends transactional mail (account activation, password recovery,
// tickets) through SMTP behind a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
	enviador Enviador
}

func NewMailer(cfg *config.Config) *Mailer {
	return NewMailerCon(cfg, smtpEnviador{})
}

// NewMailerCon builds a Mailer with a custom transport.
func NewMailerCon(cfg *config.Config, enviador Enviador) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     fmt.Sprintf("%s <%s>", cfg.NombreLocal, cfg.SMTPFrom),
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker(DefaultCBConfig("smtp")),
		enviador: enviador,
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// Breaker exposes the breaker state for the health endpoint.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// Enviar delivers msg. It fails fast with ErrCircuitOpen while the relay is
// considered down.
func (m *Mailer) Enviar(msg Mensaje) error {
	if !m.Configurado() {
		return ErrMailerNoConfigurado
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.Para}
	e.Subject = msg.Asunto
	e.Text = []byte(msg.Texto)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	if len(msg.Adjunto) > 0 {
		nombre := msg.Nombre
		if nombre == "" {
			nombre = "adjunto.pdf"
		}
		if _, err := e.Attach(bytes.NewReader(msg.Adjunto), nombre, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: adjuntar: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error {
		return m.enviador.Send(e, m.addr, auth)
	})
}
