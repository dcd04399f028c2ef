package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	fileURL    string
}

func NewClient(token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 65 * time.Second},
		baseURL:    fmt.Sprintf("https://api.telegram.org/bot%s", token),
		fileURL:    fmt.Sprintf("https://api.telegram.org/file/bot%s", token),
	}
}

func (c *Client) call(method string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/"+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if !apiResp.OK {
		return nil, fmt.Errorf("telegram: %s", apiResp.Description)
	}

	return apiResp.Result, nil
}

func (c *Client) SendMessage(chatID int64, text, parseMode string, replyMarkup interface{}) (int64, error) {
	req := SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}

	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return 0, err
		}
		req.ReplyMarkup = rm
	}

	result, err := c.call("sendMessage", req)
	if err != nil {
		return 0, err
	}

	var msg MessageResult
	json.Unmarshal(result, &msg)
	return msg.MessageID, nil
}

// SendPhoto delivers a photo by file_id (re-sending something Telegram
// already stores).
func (c *Client) SendPhoto(chatID int64, fileID, caption string, replyMarkup interface{}) (int64, error) {
	req := SendPhotoRequest{
		ChatID:  chatID,
		Photo:   fileID,
		Caption: caption,
	}

	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return 0, err
		}
		req.ReplyMarkup = rm
	}

	result, err := c.call("sendPhoto", req)
	if err != nil {
		return 0, err
	}

	var msg MessageResult
	json.Unmarshal(result, &msg)
	return msg.MessageID, nil
}

// SendDocument uploads a local file (e.g. a generated PDF report) via
// multipart form data.
func (c *Client) SendDocument(chatID int64, filePath, caption string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("chat_id", strconv.FormatInt(chatID, 10))
	if caption != "" {
		w.WriteField("caption", caption)
	}
	part, err := w.CreateFormFile("document", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.baseURL+"/sendDocument", w.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram: %s", apiResp.Description)
	}
	return nil
}

func (c *Client) SendContact(chatID int64, phone, firstName, lastName string) error {
	req := SendContactRequest{
		ChatID:      chatID,
		PhoneNumber: phone,
		FirstName:   firstName,
		LastName:    lastName,
	}
	_, err := c.call("sendContact", req)
	return err
}

func (c *Client) EditMessageCaption(chatID, messageID int64, caption string, replyMarkup interface{}) error {
	req := EditMessageCaptionRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Caption:   caption,
	}
	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return err
		}
		req.ReplyMarkup = rm
	}
	_, err := c.call("editMessageCaption", req)
	return err
}

func (c *Client) EditMessageText(chatID, messageID int64, text, parseMode string, replyMarkup interface{}) error {
	req := EditMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: parseMode,
	}

	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return err
		}
		req.ReplyMarkup = rm
	}

	_, err := c.call("editMessageText", req)
	return err
}

func (c *Client) EditMessageReplyMarkup(chatID, messageID int64, replyMarkup interface{}) error {
	req := EditMessageReplyMarkupRequest{
		ChatID:    chatID,
		MessageID: messageID,
	}
	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return err
		}
		req.ReplyMarkup = rm
	}
	_, err := c.call("editMessageReplyMarkup", req)
	return err
}

func (c *Client) AnswerCallbackQuery(callbackID, text string, showAlert bool) error {
	req := AnswerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	}
	_, err := c.call("answerCallbackQuery", req)
	return err
}

func (c *Client) DeleteMessage(chatID, messageID int64) error {
	req := struct {
		ChatID    int64 `json:"chat_id"`
		MessageID int64 `json:"message_id"`
	}{ChatID: chatID, MessageID: messageID}
	_, err := c.call("deleteMessage", req)
	return err
}

func (c *Client) SetWebhook(url, secretToken string) error {
	req := SetWebhookRequest{URL: url, SecretToken: secretToken}
	_, err := c.call("setWebhook", req)
	return err
}

func (c *Client) DeleteWebhook() error {
	_, err := c.call("deleteWebhook", struct{}{})
	return err
}

// GetUpdates long-polls for new updates past offset.
func (c *Client) GetUpdates(offset int64, timeout int) ([]Update, error) {
	req := GetUpdatesRequest{Offset: offset, Limit: 100, Timeout: timeout}
	result, err := c.call("getUpdates", req)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("unmarshal updates: %w", err)
	}
	return updates, nil
}

func (c *Client) GetFile(fileID string) (*File, error) {
	req := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}
	result, err := c.call("getFile", req)
	if err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(result, &file); err != nil {
		return nil, fmt.Errorf("unmarshal file: %w", err)
	}
	return &file, nil
}

// DownloadFile fetches a Telegram-hosted file to a local path.
func (c *Client) DownloadFile(file *File, destPath string) error {
	resp, err := c.httpClient.Get(c.fileURL + "/" + file.FilePath)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", file.FilePath, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
