// Package powershell reads and writes contact collections on Exchange Online
// and SharePoint Online by issuing cmdlets through a session channel.
package powershell

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

type Proxy struct {
	runner    ports.CommandRunner
	list      domain.SharePointList
	logger    *slog.Logger
	connected map[domain.SystemID]bool
}

var _ ports.ContactDirectory = (*Proxy)(nil)

func NewProxy(runner ports.CommandRunner, profile domain.Profile, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Proxy{
		runner:    runner,
		list:      profile.SharePoint,
		logger:    logger.With("component", "proxy", "profile", string(profile.Name)),
		connected: map[domain.SystemID]bool{},
	}
}

// NewFactory adapts NewProxy to ports.DirectoryFactory.
func NewFactory(logger *slog.Logger) ports.DirectoryFactory {
	return func(runner ports.CommandRunner, profile domain.Profile) ports.ContactDirectory {
		return NewProxy(runner, profile, logger)
	}
}

func (p *Proxy) Connect(ctx context.Context, system domain.SystemID, credentials domain.Credentials) error {
	var command string
	switch system {
	case domain.SystemExchange:
		command = connectExchangeCommand(credentials)
	case domain.SystemSharePoint:
		command = connectSharePointCommand(p.list, credentials)
	default:
		return system.Validate()
	}

	p.logger.Info("connecting", "system", system, "credentials", credentials)
	if _, err := p.run(ctx, system, "connect", command); err != nil {
		return err
	}
	p.connected[system] = true

	return nil
}

func (p *Proxy) Disconnect(ctx context.Context, system domain.SystemID) error {
	if !p.connected[system] {
		return nil
	}

	var command string
	switch system {
	case domain.SystemExchange:
		command = disconnectExchangeCommand()
	case domain.SystemSharePoint:
		command = disconnectSharePointCommand()
	default:
		return system.Validate()
	}

	delete(p.connected, system)
	_, err := p.run(ctx, system, "disconnect", command)
	return err
}

func (p *Proxy) FetchContacts(ctx context.Context, system domain.SystemID) (domain.ContactCollection, error) {
	var (
		command string
		columns map[string]string
	)
	switch system {
	case domain.SystemExchange:
		command = listExchangeCommand()
		columns = exchangeColumns()
	case domain.SystemSharePoint:
		command = listSharePointCommand(p.list)
		columns = p.list.FieldMap
	default:
		return nil, system.Validate()
	}
	if !p.connected[system] {
		return nil, fmt.Errorf("fetch %s contacts: not connected", system)
	}

	result, err := p.run(ctx, system, "fetch", command)
	if err != nil {
		return nil, err
	}

	contacts, err := parseContacts(system, result.Lines, columns)
	if err != nil {
		return nil, fmt.Errorf("fetch %s contacts: %w", system, err)
	}

	p.logger.Info("fetched contacts", "system", system, "count", len(contacts))
	return contacts, nil
}

func (p *Proxy) ApplyAdd(ctx context.Context, system domain.SystemID, contact domain.Contact) error {
	if err := writable(system); err != nil {
		return err
	}

	_, err := p.run(ctx, system, "add", addExchangeCommand(contact))
	return err
}

func (p *Proxy) ApplyRemove(ctx context.Context, system domain.SystemID, key string) error {
	if err := writable(system); err != nil {
		return err
	}

	_, err := p.run(ctx, system, "remove", removeExchangeCommand(key))
	return err
}

// ApplyUpdate writes only the fields in delta. An empty delta issues nothing.
func (p *Proxy) ApplyUpdate(ctx context.Context, system domain.SystemID, key string, delta domain.FieldDelta) error {
	if err := writable(system); err != nil {
		return err
	}

	command := updateExchangeCommand(key, delta)
	if command == "" {
		return nil
	}

	_, err := p.run(ctx, system, "update", command)
	return err
}

func (p *Proxy) run(ctx context.Context, system domain.SystemID, op string, command string) (domain.CommandResult, error) {
	result, err := p.runner.Execute(ctx, command)
	if err != nil {
		return result, fmt.Errorf("%s %s: %w", op, system, err)
	}
	if !result.Succeeded {
		return result, fmt.Errorf("%s %s: %w: %s", op, system, domain.ErrCommandFailed, failureMessage(result.Lines))
	}

	p.logger.Debug("command succeeded", "system", system, "op", op, "lines", len(result.Lines))
	return result, nil
}

func writable(system domain.SystemID) error {
	switch system {
	case domain.SystemExchange:
		return nil
	case domain.SystemSharePoint:
		return fmt.Errorf("%s: %w", system, domain.ErrReadOnlySystem)
	default:
		return system.Validate()
	}
}
