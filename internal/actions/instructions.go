package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// musicRules restrict the runner to play_song and require the raw tool JSON
// as the last line
const musicRules = "任務：根據使用者線索『實際播放』音樂。\n" +
	"硬性規則：\n" +
	"A) 你【只能】呼叫名為 play_song 的 MCP 工具來播放（不要呼叫其他工具）。\n" +
	"B) 呼叫完成後，請將 play_song 工具『原始回傳的 JSON』作為回覆的『最後一行，且只有一行 JSON』輸出；不要添加或改寫欄位。\n" +
	"C) 僅當該 JSON 顯示播放成功（例如 status 為 ok/success，或 playing==true），才視為成功。\n" +
	"D) JSON 之外可有極簡說明，但最後一行必須是工具『原始』JSON；不得捏造。\n" +
	"E) 若使用者僅說『隨便』或只給歌手/風格，請直接用 play_song 按照線索播放，不要再追問。\n" +
	"F) 嚴禁口頭宣稱成功而未真的呼叫工具。\n" +
	"play_song 參數：可接受 track（歌名）、artist（歌手）、query（自由文字其一即可）。\n"

const puzzleRules = "任務：開啟紓壓小遊戲（瀏覽器版拼圖）。\n" +
	"硬性規則：\n" +
	"A) 你【只能】呼叫名為 open_in_browser 的 MCP 工具（不要呼叫其他工具，也不要自行產生 HTML）。\n" +
	"B) 呼叫完成後，請將 open_in_browser 工具『原始回傳的 JSON』作為回覆的『最後一行，且只有一行 JSON』輸出；不得改寫或新增欄位。\n" +
	"C) 嚴禁口頭宣稱成功而未真的呼叫工具。\n" +
	"說明：puzzle-mcp 伺服器已內建 puzzle.html 的位置，無需傳入任何目錄參數；工具通常回傳形如 {\"temp_path\": \"...\"}。\n"

const statelessReminder = "不得依賴先前對話的任何狀態；以工具回傳為準。\n"

const mediaResultFormat = "結束時，最後一行只輸出單行 JSON，鏡射工具結果，例如：\n" +
	`{"status":"ok","opened":"<檔名>","path":"<開啟的完整路徑或工具輸出>"}` + "\n" +
	"若失敗：\n" +
	`{"status":"fail","reason":"<原因>"}` + "\n"

func musicInstruction(query string) string {
	if strings.TrimSpace(query) == "" {
		query = "隨便"
	}
	return musicRules +
		"\n---\n" +
		"請立刻播放音樂：\n" +
		fmt.Sprintf("- query: %s\n", query) +
		"（若能更精準，請自行推斷並填入 track/artist；否則用 query）\n" +
		"（請勿沿用任何先前狀態，每次都要實際呼叫 play_song）\n"
}

func puzzleInstruction() string {
	return puzzleRules + "\n---\n請立刻開啟紓壓小遊戲。"
}

// openIndexInstruction names the exact call; the tool's default folder is
// used, so no directory argument appears anywhere.
func openIndexInstruction(index int) string {
	return fmt.Sprintf("請只做一件事：呼叫 MCP 工具 open_index(kind='mp3', index=%d)。\n", index) +
		"不要呼叫任何其他工具，也不要多說話。\n" +
		statelessReminder +
		mediaResultFormat
}

func listMediaInstruction() string {
	return "請只做一件事：呼叫 MCP 工具 list_media() 取得預設資料夾清單。\n" +
		statelessReminder +
		"最後一行只輸出單行 JSON，格式：\n" +
		`{"status":"ok","mp3": ["a.mp3","b.mp3", ...]}` + "\n" +
		"若失敗：\n" +
		`{"status":"fail","reason":"<原因>"}` + "\n"
}

// openMediaInstruction hands over the whole valid list and the one name that
// must be opened verbatim
func openMediaInstruction(candidates []string, target string) string {
	valid := literalJSON(candidates)
	name := literalJSON(target)
	return "你現在只能做一件事：呼叫 MCP 工具 open_media(name=<檔名>) 來開啟正念 mp3。\n" +
		"【嚴格規則】\n" +
		"1) name 參數必須從下方 valid_names（JSON 陣列）中擇一，且必須與該字串『逐字逐符號完全相同』；不得改名、不得加副檔名或路徑。\n" +
		"2) 這次請使用下方 target_name 指定的那一個檔名，不得替換為其他清單項目。\n" +
		"3) 呼叫完成後，最後一行只輸出單行 JSON，鏡射工具原始結果。\n" +
		"4) 如果工具回傳的 'opened' 或 'path' 對應的檔名與 target_name 不相同，請回傳：\n" +
		`   {"status":"fail","reason":"opened_mismatch"}` + "\n" +
		"-----\n" +
		"valid_names = " + valid + "\n" +
		"target_name = " + name + "\n" +
		"-----\n" +
		"請現在直接呼叫 open_media(name=target_name)。"
}

// literalJSON encodes v without HTML escaping so names like "Rain & Piano.mp3"
// reach the model exactly as the tool listed them
func literalJSON(v any) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(b.String(), "\n")
}
