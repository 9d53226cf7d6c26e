package hooks

import "encoding/json"

func shellInput(cmd string) HookInput {
	ti, _ := json.Marshal(map[string]string{"command": cmd})
	return HookInput{ToolName: "Shell", ToolInput: ti}
}

func writeInput(path, contents string) HookInput {
	ti, _ := json.Marshal(map[string]string{"path": path, "contents": contents})
	return HookInput{ToolName: "Write", ToolInput: ti}
}
