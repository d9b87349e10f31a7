package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	env "github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/yungbote/directchat-backend/internal/chatclient"
	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=http://localhost:8080"`
	Username  string `env:"CHAT_USER,required=true"`
	Token     string `env:"CHAT_TOKEN"`
	LogMode   string `env:"LOG_MODE,default=production"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatcli: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return exitConfig, fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sock, err := chatclient.DialSocket(ctx, cfg.ServerURL, cfg.Username, cfg.Token)
	if err != nil {
		return exitRuntime, err
	}
	defer sock.Close()

	ui := &terminal{username: cfg.Username}
	cs := chatclient.New(chatclient.Options{
		Username:     cfg.Username,
		API:          chatclient.NewHTTPAPI(cfg.ServerURL, cfg.Username, cfg.Token, nil),
		Socket:       sock,
		Log:          log,
		OnCreateDone: func(c *types.EnrichedChat) { ui.info("chat %s opened", c.ID) },
		OnError:      func(err error) { ui.warn("%v", err) },
		OnChange:     func() { ui.follow() },
	})
	ui.sync = cs
	defer cs.Close()

	if err := cs.Mount(ctx); err != nil {
		return exitRuntime, err
	}
	ui.printChats()

	go func() {
		if err := cs.Run(ctx); err != nil && ctx.Err() == nil {
			ui.warn("event loop stopped: %v", err)
		}
		stop()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	ui.help()
	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			if quit := ui.exec(ctx, line); quit {
				return exitOK, nil
			}
		}
	}
}

type terminal struct {
	username string
	sync     *chatclient.Sync

	mu        sync.Mutex
	following uuid.UUID
	lastSeen  uuid.UUID
}

func (t *terminal) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	var err error
	switch cmd {
	case "":
	case "list", "ls":
		t.printChats()
	case "open":
		err = t.sync.SelectChat(ctx, t.resolve(arg))
		t.printSelected()
	case "close":
		err = t.sync.SelectChat(ctx, "")
	case "new":
		if err = t.sync.CreateChat(ctx, arg); err == nil {
			t.printSelected()
		}
	case "send", "s":
		err = t.sync.SendMessage(ctx, arg)
	case "show":
		t.printSelected()
	case "help", "?":
		t.help()
	case "quit", "exit":
		return true
	default:
		err = t.sync.SendMessage(ctx, line)
	}
	if err != nil {
		t.warn("%v", err)
	}
	return false
}

// resolve accepts a list index or a chat id.
func (t *terminal) resolve(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil {
		chats := t.sync.Chats()
		if n >= 1 && n <= len(chats) {
			return chats[n-1].ID.String()
		}
	}
	return arg
}

func (t *terminal) printChats() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Chat", "With", "Last message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i, c := range t.sync.Chats() {
		last := ""
		if m := c.LastMessage(); m != nil {
			last = m.SenderUsername + ": " + m.Body
		}
		table.Append([]string{strconv.Itoa(i + 1), c.ID.String(), strings.Join(t.others(c), ", "), last})
	}
	table.Render()
}

func (t *terminal) printSelected() {
	c := t.sync.Selected()
	if c == nil {
		return
	}
	color.New(color.FgCyan, color.OpBold).Printf("== %s ==\n", strings.Join(t.others(c), ", "))
	for _, m := range c.Messages {
		t.printMessage(m)
	}
	t.mu.Lock()
	t.following = c.ID
	t.mu.Unlock()
	t.markSeen(c)
}

// follow prints messages of the shown chat that arrived since the last call.
func (t *terminal) follow() {
	if t.sync == nil {
		return
	}
	c := t.sync.Selected()
	if c == nil {
		return
	}
	t.mu.Lock()
	following, seen := t.following, t.lastSeen
	t.mu.Unlock()
	if c.ID != following {
		return
	}
	start := 0
	for i, m := range c.Messages {
		if m.ID == seen {
			start = i + 1
		}
	}
	for _, m := range c.Messages[start:] {
		t.printMessage(m)
	}
	t.markSeen(c)
}

func (t *terminal) markSeen(c *types.EnrichedChat) {
	if m := c.LastMessage(); m != nil {
		t.mu.Lock()
		t.lastSeen = m.ID
		t.mu.Unlock()
	}
}

func (t *terminal) printMessage(m *types.Message) {
	who := color.FgGreen
	if m.SenderUsername == t.username {
		who = color.FgWhite
	}
	fmt.Printf("%s %s %s\n",
		color.FgDarkGray.Render(m.SentAt.Local().Format("15:04")),
		who.Render(m.SenderUsername+":"),
		m.Body,
	)
}

func (t *terminal) others(c *types.EnrichedChat) []string {
	out := make([]string, 0, len(c.Participants))
	for _, name := range c.ParticipantNames() {
		if name != t.username {
			out = append(out, name)
		}
	}
	return out
}

func (t *terminal) help() {
	t.info("commands: list | open <n|id> | close | new <user> | send <text> | show | quit")
}

func (t *terminal) info(format string, args ...any) {
	color.FgCyan.Printf(format+"\n", args...)
}

func (t *terminal) warn(format string, args ...any) {
	color.FgRed.Printf(format+"\n", args...)
}
