package common

import "github.com/bwmarrin/discordgo"

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// CommandOptions returns the options of the command, descending into a subcommand if one was used
func CommandOptions(i *discordgo.InteractionCreate) (string, Options) {
	opts := i.ApplicationCommandData().Options
	sub := ""
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = opts[0].Name
		opts = opts[0].Options
	}
	return sub, IndexOptions(opts)
}

// IndexOptions builds an Options map
func IndexOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	indexed := make(Options, len(opts))
	for _, opt := range opts {
		indexed[opt.Name] = opt
	}
	return indexed
}

// Int returns an integer option or def
func (o Options) Int(name string, def int64) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return def
}

// String returns a string option or def
func (o Options) String(name, def string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return def
}

// Snowflake returns the raw ID of a user, role or channel option, or 0 when absent
func (o Options) Snowflake(name string) int64 {
	opt, ok := o[name]
	if !ok {
		return 0
	}
	raw, _ := opt.Value.(string)
	id, err := ParseSnowflake(raw)
	if err != nil {
		return 0
	}
	return id
}

// User resolves a user option with the interaction's resolved data
func (o Options) User(i *discordgo.InteractionCreate, name string) *discordgo.User {
	id, ok := o[name]
	if !ok {
		return nil
	}
	raw, _ := id.Value.(string)
	data := i.ApplicationCommandData()
	if data.Resolved != nil {
		if user, ok := data.Resolved.Users[raw]; ok {
			return user
		}
	}
	return &discordgo.User{ID: raw}
}
