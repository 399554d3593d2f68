package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/wuggawugga/adventurebot/internal/game"
	"github.com/wuggawugga/adventurebot/internal/storage"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

// reactionAliases lets the player type a short word instead of pasting
// emoji. The alias resolves only if its emoji is currently allowed.
var reactionAliases = map[string]string{
	"fight": "⚔️", "f": "⚔️",
	"magic": "🪄", "m": "🪄",
	"talk": "🗣️", "t": "🗣️",
	"pray": "🙏", "p": "🙏",
	"run": "🏃", "r": "🏃",
	"equip": "⚔️", "sell": "💰", "keep": "🎒", "b": "🎒",
	"yes": "🔥", "y": "🔥",
	"1": "1️⃣", "2": "2️⃣", "3": "3️⃣", "4": "4️⃣",
}

// consolePrompter adapts the terminal to the game's Prompter interface.
// Sent messages render in the viewport; waits consume the next line the
// player types.
type consolePrompter struct {
	mu      sync.Mutex
	program *tea.Program
	waiting chan string
	userID  string
	nextID  int
}

func newConsolePrompter() *consolePrompter {
	return &consolePrompter{}
}

func (p *consolePrompter) attach(program *tea.Program) {
	p.mu.Lock()
	p.program = program
	p.mu.Unlock()
}

func (p *consolePrompter) setUser(userID string) {
	p.mu.Lock()
	p.userID = userID
	p.mu.Unlock()
}

// deliver routes a typed line into an active wait. Returns false when
// nothing is waiting, in which case the line is a command.
func (p *consolePrompter) deliver(line string) bool {
	p.mu.Lock()
	ch := p.waiting
	p.mu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- line:
		return true
	default:
		return false
	}
}

func (p *consolePrompter) SendMessage(ctx context.Context, channel, content string) (game.MessageRef, error) {
	p.mu.Lock()
	program := p.program
	p.nextID++
	id := fmt.Sprintf("console-%d", p.nextID)
	p.mu.Unlock()

	if program != nil {
		program.Send(gameOutputMsg(content))
	}
	return game.MessageRef{Channel: channel, ID: id}, nil
}

func (p *consolePrompter) awaitLine(ctx context.Context, timeout time.Duration) (string, bool, error) {
	ch := make(chan string, 1)
	p.mu.Lock()
	p.waiting = ch
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.waiting = nil
		p.mu.Unlock()
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case line := <-ch:
		return line, true, nil
	case <-t.C:
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func (p *consolePrompter) AwaitReaction(ctx context.Context, msg game.MessageRef, allowed []string, timeout time.Duration) (game.Reaction, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return game.Reaction{}, false, nil
		}
		line, ok, err := p.awaitLine(ctx, remaining)
		if err != nil || !ok {
			return game.Reaction{}, ok, err
		}

		emoji := strings.TrimSpace(line)
		if alias, found := reactionAliases[strings.ToLower(emoji)]; found {
			emoji = alias
		}
		for _, a := range allowed {
			if a == emoji {
				p.mu.Lock()
				user := p.userID
				p.mu.Unlock()
				return game.Reaction{UserID: user, Emoji: emoji}, true, nil
			}
		}
		// Not one of the allowed reactions; keep waiting.
	}
}

func (p *consolePrompter) AwaitMessage(ctx context.Context, match func(userID, content string) bool, timeout time.Duration) (string, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", false, nil
		}
		line, ok, err := p.awaitLine(ctx, remaining)
		if err != nil || !ok {
			return "", ok, err
		}
		p.mu.Lock()
		user := p.userID
		p.mu.Unlock()
		if match(user, line) {
			return line, true, nil
		}
	}
}

type gameOutputMsg string

type commandDoneMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// ConsoleUI is the BubbleTea model that runs the play session.
type ConsoleUI struct {
	svc      *game.Service
	prompter *consolePrompter
	userID   string

	viewport viewport.Model
	textarea textarea.Model
	lines    []string
	ready    bool
	width    int
	height   int
}

func newConsoleUI(svc *game.Service, prompter *consolePrompter, userID string) *ConsoleUI {
	prompter.setUser(userID)

	ta := textarea.New()
	ta.Placeholder = "Type a command, or 'help'..."
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	return &ConsoleUI{
		svc:      svc,
		prompter: prompter,
		userID:   userID,
		viewport: vp,
		textarea: ta,
		lines: []string{
			titleStyle.Render("ADVENTURE BOT"),
			"",
			"Commands: adventure, profile, loot <tier>, equip <item>, unequip <item>,",
			"sell <item>, forge <item> + <item>, trader, class <name>, ability,",
			"skill <att|cha|int> <points>, loadout save|equip <name>, rebirth, quit",
			"",
		},
	}
}

func (ui *ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (ui *ConsoleUI) append(line string) {
	wrapped := wordwrap.String(line, ui.viewport.Width-2)
	ui.lines = append(ui.lines, wrapped)
	ui.viewport.SetContent(strings.Join(ui.lines, "\n"))
	ui.viewport.GotoBottom()
}

func (ui *ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var taCmd, vpCmd tea.Cmd
	ui.textarea, taCmd = ui.textarea.Update(msg)
	ui.viewport, vpCmd = ui.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		ui.viewport.Width = msg.Width
		ui.viewport.Height = msg.Height - 4
		ui.textarea.SetWidth(msg.Width - 4)
		ui.viewport.SetContent(strings.Join(ui.lines, "\n"))
		ui.ready = true

	case gameOutputMsg:
		ui.append(gameStyle.Render(string(msg)))

	case commandDoneMsg:
		if msg.err != nil {
			ui.append(errorStyle.Render(msg.err.Error()))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(ui.textarea.Value())
			ui.textarea.Reset()
			if line == "" {
				break
			}
			ui.append(userStyle.Render("> " + line))
			if ui.prompter.deliver(line) {
				break
			}
			if line == "quit" || line == "exit" {
				return ui, tea.Quit
			}
			return ui, tea.Batch(taCmd, vpCmd, ui.dispatch(line))
		}
	}

	return ui, tea.Batch(taCmd, vpCmd)
}

// dispatch runs a command against the game service in the background so
// interactive flows can keep consuming typed lines.
func (ui *ConsoleUI) dispatch(line string) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{err: ui.runCommand(context.Background(), line)}
	}
}

func (ui *ConsoleUI) runCommand(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		ui.say("adventure | profile | loot <tier> | equip <item> | unequip <item> | sell <item> | forge <a> + <b> | trader | class <name> | ability | catch | settings trader on|off | skill <stat> <n> | loadout save|equip <name> | rebirth")
		return nil

	case "adventure":
		monster := strings.Join(args, " ")
		return ui.svc.StartAdventure(ctx, consoleGuild, consoleChannel, monster, monster != "")

	case "profile":
		c, err := ui.svc.Profile(ctx, ui.userID)
		if err != nil {
			return err
		}
		ui.say(renderProfile(c))
		return nil

	case "loot":
		if len(args) == 0 {
			args = []string{"normal"}
		}
		_, disposition, err := ui.svc.OpenChest(ctx, ui.userID, consoleChannel, item.Rarity(args[0]))
		if err != nil {
			return err
		}
		ui.say("Item " + disposition + ".")
		return nil

	case "equip":
		return ui.svc.Equip(ctx, ui.userID, strings.Join(args, " "))

	case "unequip":
		return ui.svc.Unequip(ctx, ui.userID, strings.Join(args, " "))

	case "sell":
		price, err := ui.svc.Sell(ctx, ui.userID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		ui.say(fmt.Sprintf("Sold for %s coins.", game.FormatCurrency(price)))
		return nil

	case "forge":
		parts := strings.SplitN(strings.Join(args, " "), "+", 2)
		if len(parts) != 2 {
			return fmt.Errorf("usage: forge <item a> + <item b>")
		}
		forged, kept, err := ui.svc.Forge(ctx, ui.userID, consoleChannel,
			strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}
		if !kept {
			ui.say("The new item crumbles to ash.")
			return nil
		}
		ui.say("Forged " + forged.DisplayName() + "!")
		return nil

	case "trader":
		return ui.svc.SpawnTrader(ctx, consoleGuild, consoleChannel)

	case "class":
		if len(args) != 1 {
			return fmt.Errorf("usage: class <name>")
		}
		return ui.svc.SetClass(ctx, ui.userID, characterClass(args[0]))

	case "ability":
		return ui.svc.ActivateAbility(ctx, ui.userID)

	case "settings":
		if len(args) != 2 || args[0] != "trader" {
			return fmt.Errorf("usage: settings trader on|off")
		}
		disabled := args[1] == "off"
		err := ui.svc.UpdateGuildSettings(ctx, consoleGuild, func(gs *storage.GuildSettings) {
			gs.TraderDisabled = disabled
		})
		if err != nil {
			return err
		}
		if disabled {
			ui.say("The trader will no longer visit.")
		} else {
			ui.say("The trader may visit again.")
		}
		return nil

	case "catch":
		pet, err := ui.svc.CatchPet(ctx, ui.userID)
		if err != nil {
			return err
		}
		if pet == nil {
			ui.say("The creature slips away into the brush.")
			return nil
		}
		ui.say(fmt.Sprintf("You caught a %s!", pet.Name))
		return nil

	case "skill":
		if len(args) != 2 {
			return fmt.Errorf("usage: skill <att|cha|int> <points>")
		}
		var points int
		if _, err := fmt.Sscanf(args[1], "%d", &points); err != nil {
			return fmt.Errorf("bad point count %q", args[1])
		}
		return ui.svc.AllocateSkill(ctx, ui.userID, args[0], points)

	case "loadout":
		if len(args) < 2 {
			return fmt.Errorf("usage: loadout save|equip <name>")
		}
		name := strings.Join(args[1:], " ")
		if args[0] == "save" {
			return ui.svc.SaveLoadout(ctx, ui.userID, name)
		}
		return ui.svc.EquipLoadout(ctx, ui.userID, name)

	case "rebirth":
		return ui.svc.Rebirth(ctx, ui.userID)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func (ui *ConsoleUI) say(s string) {
	p := ui.prompter
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()
	if program != nil {
		program.Send(gameOutputMsg(s))
	}
}

func (ui *ConsoleUI) View() string {
	if !ui.ready {
		return "Loading..."
	}
	return ui.viewport.View() + "\n\n" + ui.textarea.View()
}
