// Package display provides terminal output formatting for winelocals.
package display

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gauthierbraillon/winelocals/internal/account"
	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/player"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

const separator = " • "

// Messages for empty lists.
const (
	MsgNoVideos   = "Nenhum produto com vídeo encontrado"
	MsgNoRegions  = "Nenhuma região encontrada"
	MsgNoProducts = "Nenhum passeio encontrado"
)

// TerminalFormatter formats feed items and account data for terminal display.
type TerminalFormatter struct {
	printer *message.Printer
	now     func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter using Brazilian
// Portuguese number and date conventions.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{
		printer: message.NewPrinter(language.BrazilianPortuguese),
		now:     time.Now,
	}
}

// FormatItem formats a single feed item for display.
func (f *TerminalFormatter) FormatItem(item catalog.FeedItem) string {
	var lines []string

	// Header: [KIND] Name
	src := item.Source()
	lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(src.Kind)), item.DisplayName))

	var meta []string
	if item.LocationLabel != "" {
		meta = append(meta, item.LocationLabel)
	}
	if item.PartnerName != "" {
		meta = append(meta, item.PartnerName)
	}
	if item.Price > 0 {
		meta = append(meta, "a partir de "+f.FormatPrice(item.Price))
	}
	if len(meta) > 0 {
		lines = append(lines, "  "+strings.Join(meta, separator))
	}

	if play := f.playURL(src); play != "" {
		lines = append(lines, "  "+play)
	} else {
		lines = append(lines, "  "+player.UnavailableMessage)
	}
	if page := shell.ExperienceURL(item.Slug); page != "" {
		lines = append(lines, "  "+page)
	}

	return strings.Join(lines, "\n") + "\n"
}

func (f *TerminalFormatter) playURL(src media.Source) string {
	if !src.Playable() {
		return ""
	}
	switch src.Kind {
	case media.KindStreaming:
		return media.AdaptiveURL(src.ID)
	case media.KindSharedPlatform:
		return "https://www.youtube.com/watch?v=" + src.ID
	}
	return ""
}

// FormatFeed formats multiple feed items for display.
func (f *TerminalFormatter) FormatFeed(items []catalog.FeedItem) string {
	if len(items) == 0 {
		return MsgNoVideos + "\n"
	}

	formatted := make([]string, 0, len(items))
	for _, item := range items {
		formatted = append(formatted, f.FormatItem(item))
	}

	return strings.Join(formatted, "\n---\n\n")
}

// FormatResolution describes how a descriptor resolves.
func (f *TerminalFormatter) FormatResolution(d media.Descriptor, src media.Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kind:     %s\n", src.Kind)
	if src.ID != "" {
		fmt.Fprintf(&b, "id:       %s\n", src.ID)
	}
	if !src.Playable() {
		fmt.Fprintf(&b, "status:   %s\n", player.UnavailableMessage)
		return b.String()
	}
	switch src.Kind {
	case media.KindStreaming:
		fmt.Fprintf(&b, "mp4:      %s\n", media.ProgressiveURL(src.ID))
		fmt.Fprintf(&b, "hls:      %s\n", media.AdaptiveURL(src.ID))
		fmt.Fprintf(&b, "poster:   %s\n", media.ThumbnailURL(d))
	case media.KindSharedPlatform:
		fmt.Fprintf(&b, "embed:    %s\n", media.EmbedURL(src.ID, true, true))
	}
	return b.String()
}

// FormatOrders formats an order list with its screen title.
func (f *TerminalFormatter) FormatOrders(typ account.OrderType, orders []account.Order) string {
	lines := []string{typ.Title(), ""}
	if len(orders) == 0 {
		lines = append(lines, account.MsgNoOrders)
		return strings.Join(lines, "\n") + "\n"
	}
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("Pedido #%s%s%s%s%s", o.ID, separator, f.FormatDate(o.CreatedAt.Time), separator, f.FormatPrice(o.Total)))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatVouchers formats a voucher list.
func (f *TerminalFormatter) FormatVouchers(vouchers []account.Voucher) string {
	lines := []string{"Meus Cupons", ""}
	if len(vouchers) == 0 {
		lines = append(lines, account.MsgNoVouchers)
		return strings.Join(lines, "\n") + "\n"
	}
	for _, v := range vouchers {
		line := fmt.Sprintf("%s%s%s%% OFF", v.Code, separator, f.printer.Sprintf("%v", number.Decimal(v.Discount)))
		if !v.ExpiresAt.IsZero() {
			line += separator + "Válido até " + f.FormatDate(v.ExpiresAt.Time)
		}
		lines = append(lines, line)
		if v.Description != "" {
			lines = append(lines, "  "+v.Description)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatRegions lists region names.
func (f *TerminalFormatter) FormatRegions(regions []string) string {
	if len(regions) == 0 {
		return MsgNoRegions + "\n"
	}
	return strings.Join(regions, "\n") + "\n"
}

// FormatMapProducts lists the products of the map tab.
func (f *TerminalFormatter) FormatMapProducts(products []catalog.MapProduct) string {
	if len(products) == 0 {
		return MsgNoProducts + "\n"
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		line := p.Name
		if p.Region != "" {
			line += separator + p.Region
		}
		if p.HasCoordinates() {
			line += separator + fmt.Sprintf("%.4f, %.4f", *p.Latitude, *p.Longitude)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatPrice formats an amount in reais, e.g. "R$ 1.234,50".
func (f *TerminalFormatter) FormatPrice(v float64) string {
	return f.printer.Sprintf("R$ %v", number.Decimal(v, number.Scale(2)))
}

// FormatDate formats a date as dd/mm/yyyy.
func (f *TerminalFormatter) FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := f.now().Sub(t)

	switch {
	case diff < time.Minute:
		return "agora"
	case diff < time.Hour:
		return ago(int(diff.Minutes()), "minuto")
	case diff < 24*time.Hour:
		return ago(int(diff.Hours()), "hora")
	case diff < 7*24*time.Hour:
		return ago(int(diff.Hours()/24), "dia")
	default:
		return f.FormatDate(t)
	}
}

// ago returns "há N unit" or "há N units" based on count.
func ago(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("há 1 %s", unit)
	}
	return fmt.Sprintf("há %d %ss", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
