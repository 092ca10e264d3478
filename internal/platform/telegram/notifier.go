package telegram

// Notifier binds a client to the dispatch chat and satisfies the risk
// handler's DispatchNotifier.
type Notifier struct {
	client *Client
	chatID int64
}

func NewNotifier(client *Client, chatID int64) *Notifier {
	return &Notifier{client: client, chatID: chatID}
}

func (n *Notifier) NotifyWarning(text string) error {
	return n.client.SendMessage(n.chatID, text)
}
