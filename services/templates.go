package services

import (
	"fmt"
	"html"
	"time"
)

// The templates are kept as plain formatted strings. User-provided values are
// HTML-escaped before interpolation.

func contactNotificationHTML(name, email, subject, message string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">New Contact Form Submission</h2>
			<div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px;">
				<p><strong>Name:</strong> %s</p>
				<p><strong>Email:</strong> %s</p>
				<p><strong>Subject:</strong> %s</p>
				<p><strong>Message:</strong></p>
				<p style="white-space: pre-wrap;">%s</p>
			</div>
			<p style="color: #666; font-size: 12px;">Received at %s</p>
		</div>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(subject),
		html.EscapeString(message),
		time.Now().Format(time.RFC1123),
	)
}

func contactConfirmationHTML(name, subject string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Thank you for reaching out, %s!</h2>
			<p>I have received your message about "<strong>%s</strong>" and will get back to you as soon as possible.</p>
			<p>This is an automated confirmation, no reply is needed.</p>
			<p style="color: #666;">Best regards,<br>Saad</p>
		</div>`,
		html.EscapeString(name),
		html.EscapeString(subject),
	)
}

func passwordResetHTML(name, resetURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Password Reset Request</h2>
			<p>Hi %s,</p>
			<p>A password reset was requested for your account. Click the button below to choose a new password. The link expires in one hour.</p>
			<p style="text-align: center; margin: 30px 0;">
				<a href="%s" style="background-color: #007bff; color: #fff; padding: 12px 24px; border-radius: 4px; text-decoration: none;">Reset Password</a>
			</p>
			<p>If you did not request this, you can safely ignore this email.</p>
		</div>`,
		html.EscapeString(name),
		resetURL,
	)
}

func welcomeHTML(name string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Welcome, %s!</h2>
			<p>Your admin account has been created. You can now sign in and start managing the portfolio content.</p>
			<p style="color: #666;">Best regards,<br>Saad</p>
		</div>`,
		html.EscapeString(name),
	)
}
