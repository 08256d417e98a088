// Package mailer exposes the mail sender as the send_mail tool.
package mailer

import (
	"context"

	"github.com/entrhq/stickynotes/pkg/mail"
	"github.com/entrhq/stickynotes/pkg/tools"
)

const (
	// SentMessage is returned when the relay accepted the message.
	SentMessage = "Email Send successfully!!"

	// FailurePrefix starts every failure status.
	FailurePrefix = "Error sending the email : "
)

// SendMailTool delivers one email per call. Delivery failures are reported in
// the result text, never as errors.
type SendMailTool struct {
	sender mail.Sender
}

// NewSendMailTool creates a new SendMailTool.
func NewSendMailTool(sender mail.Sender) *SendMailTool {
	return &SendMailTool{
		sender: sender,
	}
}

// Name returns the tool name.
func (t *SendMailTool) Name() string {
	return "send_mail"
}

// Description returns the tool description.
func (t *SendMailTool) Description() string {
	return "Deliver a plain-text email from the sender's mail account to the receiver. Returns the status of the delivery."
}

// Schema returns the JSON schema for the tool's input parameters.
// Parameter names, including the "reciever" spelling, are part of the
// host-facing contract.
func (t *SendMailTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"senderMailId":   tools.StringProperty("Mail id of the sender"),
			"senderPassword": tools.StringProperty("Password of the sender's mail id"),
			"recieverMailId": tools.StringProperty("Mail id of the receiver"),
			"subject":        tools.StringProperty("Subject of the mail"),
			"body":           tools.StringProperty("Body of the mail"),
		},
		[]string{"senderMailId", "senderPassword", "recieverMailId", "subject", "body"},
	)
}

// Execute sends the mail and returns a status line.
func (t *SendMailTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input struct {
		SenderMailID   string `json:"senderMailId"`
		SenderPassword string `json:"senderPassword"`
		RecieverMailID string `json:"recieverMailId"`
		Subject        string `json:"subject"`
		Body           string `json:"body"`
	}

	if err := tools.DecodeArguments(argsJSON, &input); err != nil {
		return FailurePrefix + err.Error(), map[string]interface{}{"stage": string(mail.StageValidate)}, nil
	}

	err := t.sender.Send(ctx, mail.Message{
		From:     input.SenderMailID,
		Password: input.SenderPassword,
		To:       input.RecieverMailID,
		Subject:  input.Subject,
		Body:     input.Body,
	})
	if err != nil {
		metadata := map[string]interface{}{
			"stage": string(mail.StageOf(err)),
		}
		return FailurePrefix + err.Error(), metadata, nil
	}

	return SentMessage, map[string]interface{}{"recipient": input.RecieverMailID}, nil
}
