package app

import (
	"fmt"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	accessHTTP "github.com/eventdesk/accessd/internal/access/http"
	accessRepository "github.com/eventdesk/accessd/internal/access/repository"
	accessService "github.com/eventdesk/accessd/internal/access/service"
	accessUseCase "github.com/eventdesk/accessd/internal/access/usecase"
)

// HostRegistry returns the host registry parsed from configuration.
func (c *Container) HostRegistry() (*accessDomain.HostRegistry, error) {
	var err error
	c.hostRegistryInit.Do(func() {
		c.hostRegistry, err = accessDomain.ParseHostRegistry(c.config.HostAccess)
		if err != nil {
			c.initErrors["hostRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hostRegistry"]; exists {
		return nil, storedErr
	}
	return c.hostRegistry, nil
}

// HashService returns the HMAC hash service.
func (c *Container) HashService() accessService.HashService {
	c.hashServiceInit.Do(func() {
		c.hashService = accessService.NewHashService()
	})
	return c.hashService
}

// TokenCodec returns the capability token codec.
func (c *Container) TokenCodec() (accessService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = accessService.NewTokenCodec(c.config)
		if err != nil {
			c.initErrors["tokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// AuthRecordRepository returns the auth record repository based on database driver.
func (c *Container) AuthRecordRepository() (accessUseCase.AuthRecordRepository, error) {
	var err error
	c.authRecordRepoInit.Do(func() {
		c.authRecordRepo, err = c.initAuthRecordRepository()
		if err != nil {
			c.initErrors["authRecordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authRecordRepo"]; exists {
		return nil, storedErr
	}
	return c.authRecordRepo, nil
}

// ActionsProfileRepository returns the actions profile repository based on database driver.
func (c *Container) ActionsProfileRepository() (accessUseCase.ActionsProfileRepository, error) {
	var err error
	c.actionsProfileRepoInit.Do(func() {
		c.actionsProfileRepo, err = c.initActionsProfileRepository()
		if err != nil {
			c.initErrors["actionsProfileRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionsProfileRepo"]; exists {
		return nil, storedErr
	}
	return c.actionsProfileRepo, nil
}

// SessionRepository returns the session repository based on database driver.
func (c *Container) SessionRepository() (accessUseCase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// VerificationTokenRepository returns the verification token repository based
// on database driver.
func (c *Container) VerificationTokenRepository() (accessUseCase.VerificationTokenRepository, error) {
	var err error
	c.verificationTokenRepoInit.Do(func() {
		c.verificationTokenRepo, err = c.initVerificationTokenRepository()
		if err != nil {
			c.initErrors["verificationTokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.verificationTokenRepo, nil
}

// AccessUseCase returns the access coordination use case.
func (c *Container) AccessUseCase() (accessUseCase.AccessUseCase, error) {
	var err error
	c.accessUseCaseInit.Do(func() {
		c.accessUseCase, err = c.initAccessUseCase()
		if err != nil {
			c.initErrors["accessUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessUseCase"]; exists {
		return nil, storedErr
	}
	return c.accessUseCase, nil
}

// AccessHandler returns the access HTTP handler.
func (c *Container) AccessHandler() (*accessHTTP.AccessHandler, error) {
	var err error
	c.accessHandlerInit.Do(func() {
		c.accessHandler, err = c.initAccessHandler()
		if err != nil {
			c.initErrors["accessHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessHandler"]; exists {
		return nil, storedErr
	}
	return c.accessHandler, nil
}

// PermissionsHandler returns the permissions HTTP handler.
func (c *Container) PermissionsHandler() (*accessHTTP.PermissionsHandler, error) {
	var err error
	c.permissionsHandlerInit.Do(func() {
		c.permissionsHandler, err = accessHTTP.NewPermissionsHandler(
			c.config.LanguagePermissions,
			c.Logger(),
		)
		if err != nil {
			c.initErrors["permissionsHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionsHandler"]; exists {
		return nil, storedErr
	}
	return c.permissionsHandler, nil
}

// initAuthRecordRepository creates the auth record repository based on the
// database driver.
func (c *Container) initAuthRecordRepository() (accessUseCase.AuthRecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for auth record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLAuthRecordRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLAuthRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initActionsProfileRepository creates the actions profile repository based on
// the database driver.
func (c *Container) initActionsProfileRepository() (accessUseCase.ActionsProfileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for actions profile repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLActionsProfileRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLActionsProfileRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSessionRepository creates the session repository based on the database driver.
func (c *Container) initSessionRepository() (accessUseCase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLSessionRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVerificationTokenRepository creates the verification token repository
// based on the database driver.
func (c *Container) initVerificationTokenRepository() (accessUseCase.VerificationTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for verification token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLVerificationTokenRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLVerificationTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessUseCase creates the access use case with all its collaborators.
func (c *Container) initAccessUseCase() (accessUseCase.AccessUseCase, error) {
	hostRegistry, err := c.HostRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get host registry for access use case: %w", err)
	}

	tokenCodec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for access use case: %w", err)
	}

	authRecordRepo, err := c.AuthRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth record repository for access use case: %w", err)
	}

	actionsProfileRepo, err := c.ActionsProfileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get actions profile repository for access use case: %w", err)
	}

	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for access use case: %w", err)
	}

	verificationTokenRepo, err := c.VerificationTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification token repository for access use case: %w", err)
	}

	participantRepo, err := c.ParticipantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get participant repository for access use case: %w", err)
	}

	baseUseCase := accessUseCase.NewAccessUseCase(
		c.config,
		hostRegistry,
		c.HashService(),
		tokenCodec,
		authRecordRepo,
		actionsProfileRepo,
		sessionRepo,
		verificationTokenRepo,
		participantRepo,
		c.NotificationSender(),
		c.GeoResolver(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access use case: %w", err)
		}
		return accessUseCase.NewAccessUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccessHandler creates the access HTTP handler with all its dependencies.
func (c *Container) initAccessHandler() (*accessHTTP.AccessHandler, error) {
	useCase, err := c.AccessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access use case for access handler: %w", err)
	}

	return accessHTTP.NewAccessHandler(useCase, c.Logger()), nil
}
