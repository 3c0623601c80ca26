package app

// Command names the CLI operation a given invocation maps to.
type Command string

const (
	CommandLogin      Command = "login"
	CommandLogout     Command = "logout"
	CommandSignup     Command = "signup"
	CommandWhoami     Command = "whoami"
	CommandTrips      Command = "trips"
	CommandActivities Command = "activities"
	CommandCosts      Command = "costs"
	CommandHelp       Command = "help"
)

// ParseCommand resolves the subcommand from the CLI arguments (without the
// program name). Empty or unknown input maps to help rather than an error so
// the usage text is the worst outcome of a typo.
func ParseCommand(args []string) (Command, []string) {
	if len(args) == 0 {
		return CommandHelp, nil
	}
	switch args[0] {
	case "login":
		return CommandLogin, args[1:]
	case "logout":
		return CommandLogout, args[1:]
	case "signup":
		return CommandSignup, args[1:]
	case "whoami":
		return CommandWhoami, args[1:]
	case "trips":
		return CommandTrips, args[1:]
	case "activities":
		return CommandActivities, args[1:]
	case "costs":
		return CommandCosts, args[1:]
	default:
		return CommandHelp, nil
	}
}
