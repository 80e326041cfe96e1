package main

import (
	"chat-local/domain"
	"chat-local/repositories"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	driver := flag.String("driver", config.StoreDriver, "Store driver (badger, bolt, pebble)")
	path := flag.String("path", config.StorePath, "Path to the store")
	flag.Parse()

	store, err := openReadOnly(repositories.Driver(*driver), *path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	messages, chats := repositories.NewSnapshotRepository(store, logger).Load()
	oinks := repositories.NewOinkRepository(store, logger).List()

	printChats(os.Stdout, chats, messages, config.Colours)
	fmt.Println()
	printOinks(os.Stdout, oinks, config.Colours)
}

// openReadOnly lets badger be read while the console holds its lock.
func openReadOnly(driver repositories.Driver, path string) (repositories.IBlobStore, error) {
	if driver == repositories.DriverBadger {
		return repositories.OpenBadgerStore(path, true)
	}
	return repositories.OpenBlobStore(driver, path)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printChats(w io.Writer, chats []domain.ChatRoom, messages map[domain.ChatID][]domain.Message, colours bool) {
	table := newTable(w, []string{"#", "ID", "Name", "Type", "Unread", "Messages", "Last message"})
	for i, room := range chats {
		unread := strconv.Itoa(room.UnreadCount)
		if colours && room.UnreadCount > 0 {
			unread = color.New(color.FgRed, color.OpBold).Render(unread)
		}
		table.Append([]string{
			strconv.Itoa(i),
			string(room.ID),
			room.Name,
			string(room.Type),
			unread,
			strconv.Itoa(len(messages[room.ID])),
			room.LastMessage,
		})
	}
	table.Render()
}

func printOinks(w io.Writer, oinks []domain.Oink, colours bool) {
	table := newTable(w, []string{"ID", "From", "Target", "Name", "Time", "Viewed"})
	for _, o := range oinks {
		viewed := strconv.FormatBool(o.Viewed)
		if colours && !o.Viewed {
			viewed = color.Green.Sprint(viewed)
		}
		table.Append([]string{o.ID, o.FromUserID, o.TargetID, o.DisplayName, o.Time.Format("2006-01-02 15:04"), viewed})
	}
	table.Render()
}
