package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool       OptionType = iota
	OptionTypeString                // Takes one value, last one wins
	OptionTypeStringList            // Takes one value per occurrence
	OptionTypeCount                 // Counts occurrences (-vvv = 3)
)

// OptionDef defines a command-line option
type OptionDef struct {
	Long        string     // Long option name (without --)
	Short       string     // Short option name (without -)
	Type        OptionType // Type of value expected
	Description string     // Help description
	Default     string     // Default value
	ValueName   string     // Placeholder shown in usage
}

// ParsedOptions holds the parsed command-line options
type ParsedOptions struct {
	values        map[string]string
	lists         map[string][]string
	args          []string
	defs          map[string]*OptionDef
	order         []string          // Long names in definition order, for usage
	shortMap      map[string]string // Maps short options to long options
	explicitlySet map[string]bool   // Tracks which options were explicitly set
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:        make(map[string]string),
		lists:         make(map[string][]string),
		args:          []string{},
		defs:          make(map[string]*OptionDef),
		shortMap:      make(map[string]string),
		explicitlySet: make(map[string]bool),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, defaultValue, valueName, description string) {
	def := &OptionDef{
		Long:        long,
		Short:       short,
		Type:        optType,
		Description: description,
		Default:     defaultValue,
		ValueName:   valueName,
	}
	if _, exists := p.defs[long]; !exists {
		p.order = append(p.order, long)
	}
	p.defs[long] = def
	if short != "" {
		p.shortMap[short] = long
	}

	// Set default value
	if defaultValue != "" {
		p.values[long] = defaultValue
	}
}

// Parse parses command-line arguments. Options and positional arguments may
// be mixed; everything after a bare "--" is positional.
func (p *ParsedOptions) Parse(args []string) error {
	consumed := make([]bool, len(args)) // Track which arguments are consumed
	endOfOptions := len(args)

	// First pass: identify options and mark consumed arguments
	for i := 0; i < len(args); i++ {
		if consumed[i] {
			continue
		}

		arg := args[i]

		if arg == "--" {
			consumed[i] = true
			endOfOptions = i
			break
		}

		if strings.HasPrefix(arg, "--") {
			// Long option
			consumed[i] = true
			if err := p.parseLongOption(arg, args, &i, consumed); err != nil {
				return err
			}
		} else if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			// Short option(s)
			consumed[i] = true
			if err := p.parseShortOptions(arg, args, i, consumed); err != nil {
				return err
			}
		}
	}

	// Second pass: collect non-consumed arguments
	for i := 0; i < endOfOptions; i++ {
		if !consumed[i] {
			p.args = append(p.args, args[i])
		}
	}
	if endOfOptions < len(args) {
		p.args = append(p.args, args[endOfOptions+1:]...)
	}

	return nil
}

// parseLongOption parses a long option (--option, --option=value or --option value)
func (p *ParsedOptions) parseLongOption(arg string, args []string, i *int, consumed []bool) error {
	optName := strings.TrimPrefix(arg, "--")
	var optValue string
	hasValue := false

	// Check for --option=value format
	if equalPos := strings.Index(optName, "="); equalPos != -1 {
		optValue = optName[equalPos+1:]
		optName = optName[:equalPos]
		hasValue = true
	}

	def, exists := p.defs[optName]
	if !exists {
		return fmt.Errorf("unknown option: --%s", optName)
	}

	switch def.Type {
	case OptionTypeBool:
		if hasValue {
			// --option=value format with boolean
			switch optValue {
			case "true", "1":
				p.values[optName] = "true"
			case "false", "0":
				p.values[optName] = "false"
			default:
				return fmt.Errorf("invalid boolean value for --%s: %s", optName, optValue)
			}
		} else {
			// --option format (sets to true)
			p.values[optName] = "true"
		}

	case OptionTypeCount:
		if hasValue {
			if _, err := strconv.Atoi(optValue); err != nil {
				return fmt.Errorf("invalid integer value for --%s: %s", optName, optValue)
			}
			p.values[optName] = optValue
		} else {
			p.values[optName] = strconv.Itoa(p.GetInt(optName) + 1)
		}

	case OptionTypeString, OptionTypeStringList:
		if !hasValue {
			// --option value format, the next argument is taken as is
			next := *i + 1
			if next >= len(args) || consumed[next] {
				return fmt.Errorf("option --%s requires a value", optName)
			}
			optValue = args[next]
			consumed[next] = true
			*i = next
		}
		p.setValue(def, optValue)
	}

	p.explicitlySet[optName] = true
	return nil
}

// parseShortOptions parses short option(s) (-o or -abc). Value-taking options
// consume the next free argument as is, in the order they appear in the
// group, so "-n -1" gives -n the value "-1".
func (p *ParsedOptions) parseShortOptions(arg string, args []string, i int, consumed []bool) error {
	shortOpts := strings.TrimPrefix(arg, "-")

	for _, r := range shortOpts {
		short := string(r)
		longOpt, exists := p.shortMap[short]
		if !exists {
			return fmt.Errorf("unknown option: -%s", short)
		}
		def := p.defs[longOpt]

		switch def.Type {
		case OptionTypeBool:
			// For boolean options, just set to true
			p.values[longOpt] = "true"

		case OptionTypeCount:
			// Each repetition adds one (e.g., -vvv = verbose level 3)
			p.values[longOpt] = strconv.Itoa(p.GetInt(longOpt) + 1)

		case OptionTypeString, OptionTypeStringList:
			// String options must consume next available argument
			nextArg, ok := p.findNextAvailableArg(args, i, consumed)
			if !ok {
				return fmt.Errorf("option -%s requires a value", short)
			}
			p.setValue(def, nextArg)
		}

		p.explicitlySet[longOpt] = true
	}

	return nil
}

// setValue stores a value for a string or list option
func (p *ParsedOptions) setValue(def *OptionDef, value string) {
	if def.Type == OptionTypeStringList {
		p.lists[def.Long] = append(p.lists[def.Long], value)
		return
	}
	p.values[def.Long] = value
}

// findNextAvailableArg finds the next available argument and marks it consumed
func (p *ParsedOptions) findNextAvailableArg(args []string, startIdx int, consumed []bool) (string, bool) {
	for i := startIdx + 1; i < len(args); i++ {
		if args[i] == "--" {
			break
		}
		if !consumed[i] {
			consumed[i] = true
			return args[i], true
		}
	}
	return "", false
}

// GetString returns a string option value
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetStrings returns every value given for a list option, in order
func (p *ParsedOptions) GetStrings(option string) []string {
	return p.lists[option]
}

// GetInt returns an integer option value
func (p *ParsedOptions) GetInt(option string) int {
	if val, exists := p.values[option]; exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return 0
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	if val, exists := p.values[option]; exists {
		return val == "true"
	}
	return false
}

// IsSet returns true if an option was explicitly set
func (p *ParsedOptions) IsSet(option string) bool {
	return p.explicitlySet[option]
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// ShowUsage writes the option list in definition order
func (p *ParsedOptions) ShowUsage(w io.Writer, programName string) {
	fmt.Fprintf(w, "Usage: %s [OPTIONS] <path>\n\n", programName)
	fmt.Fprintf(w, "Options:\n")

	for _, long := range p.order {
		def := p.defs[long]

		shortOpt := "    "
		if def.Short != "" {
			shortOpt = fmt.Sprintf("-%s, ", def.Short)
		}

		flag := "--" + def.Long
		if def.ValueName != "" {
			flag += " " + def.ValueName
		}

		fmt.Fprintf(w, "  %s%-22s %s\n", shortOpt, flag, def.Description)
	}
}
