package routes

import (
	"workforce-backend/config"
	"workforce-backend/internal/repository"
	"workforce-backend/internal/service"
)

// newNotifier builds the mail notifier when SMTP is configured and
// falls back to a no-op otherwise.
func newNotifier(userRepo repository.UserRepository) service.Notifier {
	host := config.GetEnv("SMTP_HOST", "")
	if host == "" {
		return service.NopNotifier{}
	}
	return service.NewMailNotifier(
		host,
		config.GetEnvAsInt("SMTP_PORT", 587),
		config.GetEnv("SMTP_USERNAME", ""),
		config.GetEnv("SMTP_PASSWORD", ""),
		config.GetEnv("SMTP_FROM", "no-reply@workforce.local"),
		userRepo,
	)
}
