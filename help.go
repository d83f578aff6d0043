package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// hotkey is one line of the key reference.
type hotkey struct {
	key string
	en  string
	ru  string
}

var hotkeys = []hotkey{
	{"Ctrl-O", "Open file", "Открыть файл"},
	{"Ctrl-S", "Save file (rehighlights the buffer)", "Сохранить файл (с повторной подсветкой)"},
	{"Ctrl-W", "Save as", "Сохранить как"},
	{"Ctrl-N", "New file", "Новый файл"},
	{"Ctrl-R", "Run the buffer with Python and show the output", "Запустить буфер в Python и показать вывод"},
	{"Ctrl-Q", "Quit editor", "Выход из редактора"},
	{"Ctrl-F", "Find text. To replace all, use the symbol -> .\n          Example: print -> log", "Поиск текста. Для замены всех используй символ -> .\n          Пример: print -> log"},
	{"Ctrl-T", "Toggle regex / literal find", "Переключить поиск: regex / обычный"},
	{"Ctrl-G", "Go to line", "Перейти к строке"},
	{"Ctrl-Z", "Undo", "Отменить"},
	{"Ctrl-E", "Redo", "Вернуть отменённое"},
	{"Ctrl-X", "Cut selection or current line", "Вырезать выделение или текущую строку"},
	{"Ctrl-C", "Copy to clipboard", "Копировать в буфер обмена"},
	{"Ctrl-V", "Paste clipboard", "Вставить буфер обмена"},
	{"Ctrl-A", "Select all", "Выделить все"},
	{"Ctrl-D", "Drop selection and find marks", "Снять выделение и отметки поиска"},
	{"Ctrl-K", "Comment or uncomment the line or selected lines", "Закомментировать или раскомментировать строки"},
	{"Ctrl-U", "Shift the selected lines right by 4 characters", "Сдвиг выделенных строк вправо на 4 знака"},
	{"Ctrl-Y", "Shift the selected lines left by 4 characters", "Сдвиг выделенных строк влево на 4 знака"},
	{"Ctrl-L", "Change a highlight color: <category> <#hex>", "Изменить цвет подсветки: <категория> <#hex>"},
	{"Ctrl-B", "Save the color scheme", "Сохранить цветовую схему"},
	{"Ctrl-P", "Post the buffer to hastebin and copy the link", "Отправить буфер на hastebin и скопировать ссылку"},
	{"F2", "Search Stack Overflow for a problem", "Найти проблему на Stack Overflow"},
	{"Ctrl-J", "This help", "Эта справка"},
}

// writeHotkeys writes the key reference in lang.
func writeHotkeys(w io.Writer, lang string) {
	for _, h := range hotkeys {
		text := h.en
		if lang == "ru" {
			text = h.ru
		}
		fmt.Fprintf(w, "  %-6s  %s\n", h.key, text)
	}
}

// writeUsage writes the full usage text in lang.
// writeUsage выводит расширенную справку.
func writeUsage(w io.Writer, lang string) {
	if lang == "ru" {
		fmt.Fprintln(w, "pyedit - расширенная справка")
		fmt.Fprintln(w, "Usage: pyedit [flags] [path]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Флаги:")
		fmt.Fprintln(w, "  -colors PATH       Файл цветовой схемы (JSON, YAML по расширению).")
		fmt.Fprintln(w, "  -python CMD        Интерпретатор для запуска (python3).")
		fmt.Fprintln(w, "  -debug             Писать отладочный журнал.")
		fmt.Fprintln(w, "  -log PATH          Путь журнала (pyedit.log).")
		fmt.Fprintln(w, "  -h, --help         Показать эту справку.")
		fmt.Fprintln(w, "  -v, --version      Показать версию программы.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Горячие клавиши:")
	} else {
		fmt.Fprintln(w, "pyedit - extended help")
		fmt.Fprintln(w, "Usage: pyedit [flags] [path]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		fmt.Fprintln(w, "  -colors PATH       Color scheme file (JSON, or YAML by extension).")
		fmt.Fprintln(w, "  -python CMD        Interpreter used by Run (python3).")
		fmt.Fprintln(w, "  -debug             Write a debug log.")
		fmt.Fprintln(w, "  -log PATH          Debug log path (pyedit.log).")
		fmt.Fprintln(w, "  -h, --help         Show this help and usage.")
		fmt.Fprintln(w, "  -v, --version      Show program version.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Hotkeys:")
	}
	writeHotkeys(w, lang)
	if lang == "ru" {
		fmt.Fprintln(w, "Навигация:")
		fmt.Fprintln(w, "  Стрелки, Home/End, PgUp/PgDn; с Shift - выделение")
	} else {
		fmt.Fprintln(w, "Navigation:")
		fmt.Fprintln(w, "  Arrows, Home/End, PgUp/PgDn; hold Shift to select")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Colors: "+strings.Join(requiredCategories, ", "))
}

// printUsageExtended prints the extended help information based on OS language
func printUsageExtended() {
	writeUsage(os.Stdout, detectSystemLanguage())
}

// getUsageText returns the key reference shown in the help panel.
func (e *Editor) getUsageText() string {
	var b strings.Builder
	lang := detectSystemLanguage()
	writeHotkeys(&b, lang)
	if e.syntax != nil && e.syntax.Scheme() != nil {
		writeColors(&b, lang, e.syntax.Scheme().Map())
	}
	return b.String()
}

// writeColors lists the color scheme entries sorted by name.
// writeColors выводит текущую цветовую схему.
func writeColors(w io.Writer, lang string, colors map[string]string) {
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	title := "Colors (^L to change, ^B to save):"
	if lang == "ru" {
		title = "Цвета (^L изменить, ^B сохранить):"
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, colors[name])
	}
}

// detectSystemLanguage возвращает код языка системы: "ru" или "en"
func detectSystemLanguage() string {
	var candidates = []string{
		os.Getenv("LANG"),
		os.Getenv("LC_ALL"),
		os.Getenv("LC_MESSAGES"),
		os.Getenv("LANGUAGE"),
	}
	for _, v := range candidates {
		if v == "" {
			continue
		}
		lv := strings.ToLower(v)
		if dot := strings.IndexByte(lv, '.'); dot != -1 {
			lv = lv[:dot]
		}
		if strings.Contains(lv, "ru") {
			return "ru"
		}
		if strings.Contains(lv, "en") {
			return "en"
		}
	}
	return "en"
}
