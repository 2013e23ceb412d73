// Package script parses kitchen command lines and replays scripted rounds.
//
// The same line syntax drives the interactive prompt and script files:
//
//	p1 pickup 0 1      agent verb col row
//	p1 face 1 0        facing direction
//	p1 spray 2 0 1s    extinguish for a duration
//	tick 2s            advance simulated time (scripts only)
//	level soup-kitchen choose the level (scripts only)
//	pause | resume | status | help | quit
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/kitchen"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// ErrSyntax is returned for lines that are not commands.
var ErrSyntax = errors.New("syntax error")

// CommandType classifies a parsed line.
type CommandType int

const (
	CmdNone CommandType = iota // blank line or comment
	CmdAction
	CmdTick
	CmdLevel
	CmdPause
	CmdResume
	CmdStatus
	CmdHelp
	CmdQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CmdAction:
		return "action"
	case CmdTick:
		return "tick"
	case CmdLevel:
		return "level"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdStatus:
		return "status"
	case CmdHelp:
		return "help"
	case CmdQuit:
		return "quit"
	default:
		return "none"
	}
}

// Command is one parsed line.
type Command struct {
	Type     CommandType
	Line     string
	Action   domain.Action
	Duration time.Duration
	Arg      string
}

// Script is a parsed script file.
type Script struct {
	Level    string
	Commands []Command
}

// HelpText lists the commands accepted at the prompt.
const HelpText = `p<N> move|pickup|place|throw|use <col> <row>
p<N> face <dx> <dy>
p<N> spray <col> <row> [duration]
pause, resume, status, help, quit`

// Parser turns lines into commands. Grid cells are converted to world
// positions with the kitchen's tile size.
type Parser struct {
	log   *logger.Logger
	tile  float64
	spray time.Duration

	action   *regexp.Regexp
	keywords []patternRule
}

type patternRule struct {
	regex *regexp.Regexp
	cmd   CommandType
}

var (
	tickRe  = regexp.MustCompile(`(?i)^(?:tick|wait)\s+(\S+)$`)
	levelRe = regexp.MustCompile(`(?i)^level\s+(\S+)$`)
)

// NewParser creates a parser for a kitchen with the given tile size.
func NewParser(tile float64, log *logger.Logger) *Parser {
	p := &Parser{
		log:    log,
		tile:   tile,
		spray:  500 * time.Millisecond,
		action: regexp.MustCompile(`(?i)^(p[1-9])\s+([a-z]+)(?:\s+(-?\d+)\s+(-?\d+))?(?:\s+(\S+))?$`),
	}
	p.keywords = []patternRule{
		{regexp.MustCompile(`(?i)^(pause|p|brb)$`), CmdPause},
		{regexp.MustCompile(`(?i)^(resume|back|unpause)$`), CmdResume},
		{regexp.MustCompile(`(?i)^(status|score|info)$`), CmdStatus},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), CmdHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), CmdQuit},
	}
	return p
}

// ParseLine parses a single line.
func (p *Parser) ParseLine(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	cmd := Command{Line: trimmed}
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return cmd, nil
	}

	for _, rule := range p.keywords {
		if rule.regex.MatchString(trimmed) {
			cmd.Type = rule.cmd
			return cmd, nil
		}
	}

	if m := tickRe.FindStringSubmatch(trimmed); m != nil {
		d, err := time.ParseDuration(m[1])
		if err != nil || d <= 0 {
			return cmd, fmt.Errorf("%w: bad duration %q", ErrSyntax, m[1])
		}
		cmd.Type, cmd.Duration = CmdTick, d
		return cmd, nil
	}

	if m := levelRe.FindStringSubmatch(trimmed); m != nil {
		cmd.Type, cmd.Arg = CmdLevel, m[1]
		return cmd, nil
	}

	m := p.action.FindStringSubmatch(trimmed)
	if m == nil {
		p.log.Debug("no command matches %q", trimmed)
		return cmd, fmt.Errorf("%w: %q", ErrSyntax, trimmed)
	}
	return p.parseAction(cmd, m)
}

func (p *Parser) parseAction(cmd Command, m []string) (Command, error) {
	verb := strings.ToLower(m[2])
	typ := domain.ActionFromString(verb)
	if typ == domain.ActionUnknown {
		return cmd, fmt.Errorf("%w: unknown action %q", ErrSyntax, verb)
	}
	if m[3] == "" {
		return cmd, fmt.Errorf("%w: %s needs two numbers", ErrSyntax, verb)
	}
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])

	cmd.Type = CmdAction
	cmd.Action = domain.Action{Type: typ, AgentID: strings.ToLower(m[1])}

	if m[5] != "" && typ != domain.ActionExtinguish {
		return cmd, fmt.Errorf("%w: %s takes no duration", ErrSyntax, verb)
	}

	switch typ {
	case domain.ActionFace:
		if x == 0 && y == 0 {
			return cmd, fmt.Errorf("%w: face needs a direction", ErrSyntax)
		}
		cmd.Action.Dir = domain.Vec{X: float64(x), Y: float64(y)}
	case domain.ActionExtinguish:
		cmd.Action.Target = kitchen.TileCentre(x, y, p.tile)
		cmd.Action.Delta = p.spray
		if m[5] != "" {
			d, err := time.ParseDuration(m[5])
			if err != nil || d <= 0 {
				return cmd, fmt.Errorf("%w: bad duration %q", ErrSyntax, m[5])
			}
			cmd.Action.Delta = d
		}
	default:
		cmd.Action.Target = kitchen.TileCentre(x, y, p.tile)
	}
	return cmd, nil
}

// Parse reads a whole script. Blank lines and comments are dropped; a
// level line sets the script's level.
func (p *Parser) Parse(r io.Reader) (*Script, error) {
	sc := &Script{}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		cmd, err := p.ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		switch cmd.Type {
		case CmdNone:
		case CmdLevel:
			sc.Level = cmd.Arg
		default:
			sc.Commands = append(sc.Commands, cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return sc, nil
}
