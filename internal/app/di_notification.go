package app

import (
	"fmt"

	accessUseCase "github.com/eventdesk/accessd/internal/access/usecase"
	"github.com/eventdesk/accessd/internal/notification"
	participantRepository "github.com/eventdesk/accessd/internal/participant/repository"
	participantUseCase "github.com/eventdesk/accessd/internal/participant/usecase"
)

// ParticipantRepository returns the participant repository based on database driver.
func (c *Container) ParticipantRepository() (participantUseCase.ParticipantRepository, error) {
	var err error
	c.participantRepoInit.Do(func() {
		c.participantRepo, err = c.initParticipantRepository()
		if err != nil {
			c.initErrors["participantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["participantRepo"]; exists {
		return nil, storedErr
	}
	return c.participantRepo, nil
}

// NotificationSender returns the SMTP verification email sender.
func (c *Container) NotificationSender() accessUseCase.NotificationSender {
	c.notificationSenderInit.Do(func() {
		c.notificationSender = notification.NewSMTPSender(c.config, c.Logger())
	})
	return c.notificationSender
}

// GeoResolver returns the IP geolocation resolver.
func (c *Container) GeoResolver() accessUseCase.GeoResolver {
	c.geoResolverInit.Do(func() {
		c.geoResolver = notification.NewHTTPGeoResolver(c.config)
	})
	return c.geoResolver
}

// initParticipantRepository creates the participant repository based on the
// database driver.
func (c *Container) initParticipantRepository() (participantUseCase.ParticipantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for participant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return participantRepository.NewPostgreSQLParticipantRepository(db), nil
	case "mysql":
		return participantRepository.NewMySQLParticipantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
