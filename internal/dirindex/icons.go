package dirindex

import "strings"

// FallbackIcon is used for extensions missing from the table.
const FallbackIcon = "📄"

var extensionIcons = map[string]string{
	".md":       "📄",
	".markdown": "📄",
	".txt":      "📃",
	".pdf":      "📕",
	".doc":      "📘",
	".docx":     "📘",
	".xls":      "📊",
	".xlsx":     "📊",
	".ppt":      "📙",
	".pptx":     "📙",
	".jpg":      "🖼️",
	".jpeg":     "🖼️",
	".png":      "🖼️",
	".gif":      "🖼️",
	".bmp":      "🖼️",
	".mp3":      "🎵",
	".wav":      "🎵",
	".flac":     "🎵",
	".mp4":      "🎬",
	".avi":      "🎬",
	".mkv":      "🎬",
	".zip":      "📦",
	".rar":      "📦",
	".7z":       "📦",
	".exe":      "⚙️",
	".msi":      "⚙️",
	".cs":       "💻",
	".js":       "💻",
	".ts":       "💻",
	".py":       "💻",
	".java":     "💻",
	".cpp":      "💻",
	".c":        "💻",
	".h":        "💻",
	".json":     "📋",
	".xml":      "📋",
	".yaml":     "📋",
	".yml":      "📋",
	".html":     "🌐",
	".css":      "🌐",
}

// IconFor maps a file extension (with its dot) to a glyph.
func IconFor(ext string) string {
	if icon, ok := extensionIcons[strings.ToLower(ext)]; ok {
		return icon
	}
	return FallbackIcon
}
