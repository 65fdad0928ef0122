package score

import (
	"fmt"
	"strings"
)

// Channels is a parsed score: a tempo and the ordered, active channels'
// note timelines.
type Channels struct {
	BPM      uint16
	Name     string
	Channels [][]Record
}

// Parser incrementally consumes a "#!/bin/beesynth" score listing.
type Parser struct {
	listing        string
	channels       map[string][]Record
	activeChannels []string
	currentName    string
	currentChannel []Record
	name           string
	bpm            *uint16
}

// NewParser builds a Parser over the given score text.
func NewParser(listing string) *Parser {
	return &Parser{
		listing:  listing,
		channels: make(map[string][]Record),
	}
}

func (p *Parser) appendNoteLine(line string) error {
	for _, token := range strings.Fields(line) {
		rec, err := ParseRecord(token)
		if err != nil {
			return fmt.Errorf("unable to parse the note: %w", err)
		}
		p.currentChannel = append(p.currentChannel, rec)
	}
	return nil
}

func (p *Parser) saveCurrentChannel() {
	if len(p.currentChannel) == 0 {
		return
	}
	p.channels[p.currentName] = p.currentChannel
	p.currentName = ""
	p.currentChannel = nil
}

func (p *Parser) parseMeta(name, value string) error {
	if len(name) < 2 {
		return fmt.Errorf("invalid meta: %s", name)
	}
	trimmedName := name[1:]

	switch trimmedName {
	case "bpm":
		bpm, err := mustAtoiBPM(value)
		if err != nil {
			return err
		}
		if p.bpm != nil {
			return fmt.Errorf("BPM is already set")
		}
		p.bpm = &bpm

	case "channels":
		p.activeChannels = strings.Split(value, " ")

	case "name":
		p.name = value

	default:
		if trimmedName != p.currentName && len(p.currentChannel) != 0 {
			p.saveCurrentChannel()
		}
		p.currentName = trimmedName
		if existing, ok := p.channels[trimmedName]; ok {
			p.currentChannel = existing
			delete(p.channels, trimmedName)
		} else {
			p.currentChannel = nil
		}
		if err := p.appendNoteLine(value); err != nil {
			return err
		}
	}

	return nil
}

// Parse runs the full parse and returns the resulting Channels.
func (p *Parser) Parse() (Channels, error) {
	for _, rawLine := range strings.Split(p.listing, "\n") {
		line := rawLine
		if strings.HasPrefix(line, "#") {
			continue
		}

		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "@") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				return Channels{}, fmt.Errorf("invalid meta: %s", line)
			}
			metaName := strings.TrimSpace(parts[0])
			metaValue := strings.TrimSpace(parts[1])
			if metaName == "" || metaValue == "" {
				return Channels{}, fmt.Errorf("invalid meta: %s", line)
			}
			if err := p.parseMeta(metaName, metaValue); err != nil {
				return Channels{}, err
			}
		} else {
			if err := p.appendNoteLine(line); err != nil {
				return Channels{}, err
			}
		}
	}

	p.saveCurrentChannel()

	if p.bpm == nil {
		return Channels{}, fmt.Errorf("BPM is not set")
	}

	result := Channels{BPM: *p.bpm, Name: p.name}
	for _, channelName := range p.activeChannels {
		if channel, ok := p.channels[channelName]; ok {
			result.Channels = append(result.Channels, channel)
		}
	}

	return result, nil
}

// Parse is a convenience wrapper around NewParser(listing).Parse().
func Parse(listing string) (Channels, error) {
	return NewParser(listing).Parse()
}

// String re-emits the score in canonical form: header, @bpm, @name (if
// set), @channels, then one "@<id>: <tokens>" line per active channel in
// order. Used by the Parse->emit->Parse round trip test and by
// beesynth-scorefmt.
func (c Channels) String() string {
	var b strings.Builder
	b.WriteString("#!/bin/beesynth\n")
	fmt.Fprintf(&b, "@bpm: %d\n", c.BPM)
	if c.Name != "" {
		fmt.Fprintf(&b, "@name: %s\n", c.Name)
	}

	ids := make([]string, len(c.Channels))
	for i := range c.Channels {
		ids[i] = fmt.Sprintf("c%d", i+1)
	}
	fmt.Fprintf(&b, "@channels: %s\n", strings.Join(ids, " "))

	for i, channel := range c.Channels {
		tokens := make([]string, len(channel))
		for j, rec := range channel {
			tokens[j] = rec.String()
		}
		fmt.Fprintf(&b, "@%s: %s\n", ids[i], strings.Join(tokens, " "))
	}

	return b.String()
}
