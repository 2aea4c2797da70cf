package tiptap

// GetAttrString безопасно извлекает строковый атрибут из map.
func GetAttrString(attrs map[string]interface{}, key string) string {
	if attrs == nil {
		return ""
	}
	val, ok := attrs[key]
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetAttrInt безопасно извлекает целочисленный атрибут из map.
func GetAttrInt(attrs map[string]interface{}, key string) int {
	if attrs == nil {
		return 0
	}
	val, ok := attrs[key]
	if !ok {
		return 0
	}

	// Может быть float64 из JSON
	if f, ok := val.(float64); ok {
		return int(f)
	}

	// Может быть int
	if i, ok := val.(int); ok {
		return i
	}

	return 0
}

// GetAttrBool безопасно извлекает булевый атрибут из map.
func GetAttrBool(attrs map[string]interface{}, key string) bool {
	if attrs == nil {
		return false
	}
	val, ok := attrs[key]
	if !ok {
		return false
	}
	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// SetAttr устанавливает атрибут, создавая map при необходимости.
func (n *Node) SetAttr(key string, value interface{}) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]interface{})
	}
	n.Attrs[key] = value
}
