package mailer

import (
	"fmt"

	"github.com/renanjardim/back-end-rota-certa/internal/config"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *Mailer) SendWelcome(to, fullName string) error {
	body := fmt.Sprintf(
		"Olá, %s!\n\nSeu cadastro no Rota Certa foi concluído com sucesso. Boas entregas!",
		fullName,
	)

	return m.send(to, "Bem-vindo ao Rota Certa", body)
}

func (m *Mailer) SendPasswordRecovery(to, token string) error {
	body := fmt.Sprintf(
		"Recebemos um pedido de recuperação de senha.\n\nUse o código abaixo para redefinir sua senha:\n\n%s\n\nSe você não fez esse pedido, ignore este e-mail.",
		token,
	)

	return m.send(to, "Recuperação de senha - Rota Certa", body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending mail to %s: %w", to, err)
	}

	return nil
}
