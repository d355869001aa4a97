package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		config  MailerConfig
		wantErr bool
		noop    bool
	}{
		{name: "empty provider", config: MailerConfig{}, noop: true},
		{name: "noop", config: MailerConfig{Provider: "noop"}, noop: true},
		{name: "unknown provider", config: MailerConfig{Provider: "smtp"}, noop: true},
		{name: "ses without region", config: MailerConfig{Provider: "ses", FromAddress: "a@b.c"}, wantErr: true},
		{name: "ses without sender", config: MailerConfig{Provider: "ses", SES: SESConfig{Region: "us-east-1"}}, wantErr: true},
		{name: "ses", config: MailerConfig{Provider: "ses", FromAddress: "a@b.c", SES: SESConfig{Region: "us-east-1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isNoop := m.(*noopMailer)
			assert.Equal(t, tt.noop, isNoop)
		})
	}
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, MailerConfig{FromAddress: "noreply@example.com", FromName: "Registro"}, discardLogger())

	err := m.Send(context.Background(), "ana@example.com", "Hola", "<p>hola</p>", "hola")
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "Registro <noreply@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ana@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hola", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hola</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Equal(t, "hola", aws.ToString(client.input.Message.Body.Text.Data))
}

func TestSESMailer_SendTextOnly(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, MailerConfig{FromAddress: "noreply@example.com"}, discardLogger())

	require.NoError(t, m.Send(context.Background(), "ana@example.com", "Hola", "", "hola"))
	assert.Equal(t, "noreply@example.com", aws.ToString(client.input.Source))
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	m := newSESMailer(client, MailerConfig{FromAddress: "noreply@example.com"}, discardLogger())

	err := m.Send(context.Background(), "ana@example.com", "Hola", "", "hola")
	assert.ErrorContains(t, err, "throttled")
}
