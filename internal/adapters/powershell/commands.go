package powershell

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bnema/spo-contact-sync/internal/domain"
)

const listWidth = 4096

// exchangeProperty pairs an Exchange contact property with the field it holds
// and the Set-Contact parameter that writes it.
type exchangeProperty struct {
	Property string
	Field    string
	Param    string
}

var exchangeProperties = []exchangeProperty{
	{Property: "Name", Field: domain.FieldName},
	{Property: "WindowsEmailAddress", Field: domain.FieldEmail},
	{Property: "Phone", Field: domain.FieldPhone, Param: "Phone"},
	{Property: "MobilePhone", Field: domain.FieldMobile, Param: "MobilePhone"},
	{Property: "Title", Field: domain.FieldTitle, Param: "Title"},
	{Property: "Department", Field: domain.FieldDepartment, Param: "Department"},
	{Property: "Company", Field: domain.FieldCompany, Param: "Company"},
	{Property: "Office", Field: domain.FieldOffice, Param: "Office"},
	{Property: "City", Field: domain.FieldCity, Param: "City"},
}

func exchangeColumns() map[string]string {
	columns := make(map[string]string, len(exchangeProperties))
	for _, prop := range exchangeProperties {
		columns[prop.Property] = prop.Field
	}
	return columns
}

func setContactParam(field string) (string, bool) {
	for _, prop := range exchangeProperties {
		if prop.Field == field && prop.Param != "" {
			return prop.Param, true
		}
	}
	return "", false
}

// quote renders value as a single-quoted PowerShell literal. PowerShell also
// treats the typographic single quotes as delimiters, so those are doubled
// too, and line breaks are flattened to keep the command on one line.
func quote(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for _, r := range value {
		switch r {
		case '\'', '‘', '’', '‚', '‛':
			b.WriteRune(r)
			b.WriteRune(r)
		case '\r', '\n':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')

	return b.String()
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, quote(value))
	}
	return strings.Join(quoted, ",")
}

func joinCommands(commands ...string) string {
	parts := make([]string, 0, len(commands))
	for _, command := range commands {
		command = strings.TrimSpace(command)
		command = strings.TrimSuffix(command, ";")
		if command != "" {
			parts = append(parts, command)
		}
	}
	return strings.Join(parts, "; ")
}

func formatList(properties []string) string {
	return "Format-List -Property " + quoteList(properties) + " | Out-String -Width " + strconv.Itoa(listWidth) + " -Stream"
}

func connectExchangeCommand(credentials domain.Credentials) string {
	return joinCommands(
		"$csyncPassword = ConvertTo-SecureString -String "+quote(credentials.Password)+" -AsPlainText -Force",
		"$csyncCredential = New-Object -TypeName System.Management.Automation.PSCredential -ArgumentList "+quote(credentials.Username)+", $csyncPassword",
		"Remove-Variable -Name csyncPassword",
		"Connect-ExchangeOnline -Credential $csyncCredential -ShowBanner:$false",
	)
}

func disconnectExchangeCommand() string {
	return joinCommands(
		"Disconnect-ExchangeOnline -Confirm:$false",
		"Remove-Variable -Name csyncCredential -ErrorAction SilentlyContinue",
	)
}

// connectSharePointCommand loads the Get-SPOObject module and keeps the
// credentials in session variables so later listing commands do not carry them.
func connectSharePointCommand(list domain.SharePointList, credentials domain.Credentials) string {
	load := "Get-Command -Name Get-SPOObject -ErrorAction Stop | Out-Null"
	if list.ModulePath != "" {
		load = "Import-Module " + quote(list.ModulePath) + " -ErrorAction Stop"
	}

	return joinCommands(
		load,
		"$csyncSpoUsername = "+quote(credentials.Username),
		"$csyncSpoPassword = "+quote(credentials.Password),
	)
}

func disconnectSharePointCommand() string {
	return "Remove-Variable -Name csyncSpoUsername, csyncSpoPassword -ErrorAction SilentlyContinue"
}

func listExchangeCommand() string {
	properties := make([]string, 0, len(exchangeProperties))
	for _, prop := range exchangeProperties {
		properties = append(properties, prop.Property)
	}

	return "Get-Contact -RecipientTypeDetails MailContact -ResultSize Unlimited | " + formatList(properties)
}

func listSharePointCommand(list domain.SharePointList) string {
	object := "web/lists/getbytitle('" + strings.ReplaceAll(list.ListName, "'", "''") + "')/items"

	columns := make([]string, 0, len(list.FieldMap))
	for column := range list.FieldMap {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	return "Get-SPOObject -Username $csyncSpoUsername -Password $csyncSpoPassword" +
		" -Url " + quote(list.SiteURL) +
		" -Object " + quote(object) +
		" | " + formatList(columns)
}

func addExchangeCommand(contact domain.Contact) string {
	address := contact.EmailAddress()
	name := contact.Name
	if name == "" {
		name = address
	}

	create := "New-MailContact -Name " + quote(name) +
		" -DisplayName " + quote(name) +
		" -ExternalEmailAddress " + quote(address)

	delta := domain.FieldDelta{}
	for field, value := range contact.Fields {
		delta[field] = value
	}
	if set := setContactCommand(delta); set != "" {
		return joinCommands(create, "Get-MailContact -Identity "+quote(contact.Key)+" | "+set)
	}

	return create
}

func removeExchangeCommand(key string) string {
	return "Remove-MailContact -Identity " + quote(key) + " -Confirm:$false"
}

func updateExchangeCommand(key string, delta domain.FieldDelta) string {
	commands := make([]string, 0, 2)
	if name, ok := delta[domain.FieldName]; ok {
		commands = append(commands, "Set-MailContact -Identity "+quote(key)+" -Name "+quote(name)+" -DisplayName "+quote(name))
	}
	if set := setContactCommand(delta); set != "" {
		commands = append(commands, "Get-MailContact -Identity "+quote(key)+" | "+set)
	}

	return joinCommands(commands...)
}

// setContactCommand renders the Set-Contact part of delta in field order, or
// "" when delta only touches fields Set-Contact does not own.
func setContactCommand(delta domain.FieldDelta) string {
	var b strings.Builder
	for _, field := range delta.Fields() {
		param, ok := setContactParam(field)
		if !ok {
			continue
		}
		b.WriteString(" -")
		b.WriteString(param)
		b.WriteByte(' ')
		b.WriteString(quote(delta[field]))
	}
	if b.Len() == 0 {
		return ""
	}

	return "Set-Contact" + b.String()
}
