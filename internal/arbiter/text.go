package arbiter

// User-facing text. Everything here goes to the output stream; diagnostics
// go to the log.

const menuText = "\n[已啟用協助] 想做什麼？\n" +
	"  • /music 〈歌名或心情〉  例：/music 周杰倫 或 /music 想聽放鬆的鋼琴\n" +
	"  • /game                 開啟 3 分鐘紓壓拼圖小遊戲（嘗試在瀏覽器開啟）\n" +
	"  • /mind [索引或關鍵字]  播放本地正念音檔（例：/mind 2 或 /mind 放鬆）\n" +
	"  • /chat                 與情緒諮商師聊天（聊天也能自然說：想聽音樂/玩遊戲/做正念）\n" +
	"  • /reset                重設聊天對話（不影響工具執行的無記憶模式）\n" +
	"  （隨時輸入 /menu 返回本選單）\n"

const chatHint = "\n[聊天模式] 你現在可以直接和我聊任何感受或近況。\n" +
	"  • 自然語句也能觸發：說「想聽音樂」「來個遊戲」「帶我做正念」即可\n" +
	"  • 輸入 /end 或 /menu 可結束聊天，返回功能選單。\n"

// personaInstruction is sent once to the conversation when CHAT is entered
const personaInstruction = "你現在是一位溫暖、尊重、非指令式的『情緒諮商師』。" +
	"聊天時請傾聽與反映感受，適度使用開放式問題，避免過度勸告或說教。" +
	"請根據使用者話語推斷其情緒狀態（正向、中性、負向），" +
	"在對話過程中若你判斷使用者情緒已顯著好轉且對話目標已達成，" +
	"可以輕聲詢問是否要結束對話；若對方仍想聊，繼續陪伴即可。" +
	"此外，若使用者在聊天中表達『想聽/播放音樂』『想玩遊戲』『想做正念/冥想』等意圖，" +
	"你可以直接啟動相應流程；若需要補充資訊（如歌手/風格），以最少問題補齊即可。" +
	"除非使用者主動詢問，否則不需要每輪給出選擇清單或教學步驟。"

const (
	askMusicMenu = "你想聽什麼歌或什麼風格？（例如：周杰倫／放鬆鋼琴／Lo-fi）"
	askMusicChat = "想聽哪一位或什麼風格呢？（例如：周杰倫／放鬆鋼琴／Lo-fi）"

	resetDone = "[系統] 已重設對話狀態。\n"
	agentErr  = "\n[Agent 錯誤] %v\n"
	openErr   = "\n[系統] ⚠️ 無法建立對話：%v\n"
)

// actionText holds the result lines of one action. failMenu is the longer
// troubleshooting hint shown from the menu; failChat keeps the chat flowing.
type actionText struct {
	ok       string
	failMenu string
	failChat string
	errFmt   string
}

var musicText = actionText{
	ok: "\n[系統] ✅ 已確認播放器成功啟動。\n",
	failMenu: "\n[系統] ⚠️ 未能確認播放成功。請檢查：\n" +
		"  1) 音樂 MCP/播放器是否正在執行並連線成功？\n" +
		"  2) 權限/地區限制（某些歌曲可能受限）\n" +
		"  3) 換個關鍵字或指定另一首歌試試\n",
	failChat: "\n[系統] ⚠️ 未能確認播放成功。可試著指定歌手/風格或換一首。\n",
	errFmt:   "\n[系統] ⚠️ 播放時發生錯誤：%v\n",
}

var puzzleText = actionText{
	ok: "\n[系統] ✅ 已嘗試在預設瀏覽器開啟小遊戲（若被沙盒阻擋，仍可用回傳路徑手動開啟）。\n",
	failMenu: "\n[系統] ⚠️ 未能確認已成功開啟小遊戲。\n" +
		"  • 請確認 puzzle-mcp 伺服器已啟動\n" +
		"  • 某些 MCP 用戶端可能會阻擋自動開窗，可改用 export_puzzle 手動複製\n",
	failChat: "\n[系統] ⚠️ 未能確認已成功開啟小遊戲。可改輸入 /game 重試或通知我改用 export_puzzle。\n",
	errFmt:   "\n[系統] ⚠️ 小遊戲開啟時發生錯誤：%v\n",
}

var mindText = actionText{
	ok: "\n[系統] ✅ 已開啟正念音檔，祝你放鬆愉快。\n",
	failMenu: "\n[系統] ⚠️ 未能確認已開啟音檔。請檢查：\n" +
		"  1) 預設媒體資料夾是否有 .mp3 檔\n" +
		"  2) 試著改用索引（/mind 1）或不同關鍵字\n",
	failChat: "\n[系統] ⚠️ 未能確認已開啟音檔。可嘗試輸入 /mind 2 或 /mind 關鍵字。\n",
	errFmt:   "\n[系統] ⚠️ 正念音檔播放時發生錯誤：%v\n",
}
