package mail

import "strings"

const emailVerificationTemplate = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333333; margin: 0; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto;">
      <h2>Verify your email address</h2>
      <p>Hi {{USER_NAME}},</p>
      <p>Thanks for signing up. Please confirm your email address to activate your account.</p>
      <p style="margin: 32px 0;">
        <a href="{{CALL_TO_ACTION_URL}}"
           style="background-color: #1a73e8; color: #ffffff; padding: 12px 24px; border-radius: 4px; text-decoration: none;">
          Verify Email
        </a>
      </p>
      <p>If the button does not work, copy this link into your browser:</p>
      <p><a href="{{CALL_TO_ACTION_URL}}">{{CALL_TO_ACTION_URL}}</a></p>
      <p>If you did not create an account, you can safely ignore this email.</p>
    </div>
  </body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333333; margin: 0; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto;">
      <h2>Reset your password</h2>
      <p>Hi {{USER_NAME}},</p>
      <p>We received a request to reset the password for your account.</p>
      <p style="margin: 32px 0;">
        <a href="{{CALL_TO_ACTION_URL}}"
           style="background-color: #1a73e8; color: #ffffff; padding: 12px 24px; border-radius: 4px; text-decoration: none;">
          Reset Password
        </a>
      </p>
      <p>If the button does not work, copy this link into your browser:</p>
      <p><a href="{{CALL_TO_ACTION_URL}}">{{CALL_TO_ACTION_URL}}</a></p>
      <p>If you did not request a password reset, you can safely ignore this email.</p>
    </div>
  </body>
</html>`

func renderTemplate(template, userName, callToActionURL string) string {
	if userName == "" {
		userName = "there"
	}
	rendered := strings.ReplaceAll(template, "{{USER_NAME}}", userName)
	return strings.ReplaceAll(rendered, "{{CALL_TO_ACTION_URL}}", callToActionURL)
}
