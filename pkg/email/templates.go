package email

import "strings"

// 注册验证码邮件模板，{name}和{verificationCode}由RenderTemplate替换
const VerificationEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>你好 {name}，</h2>
  <p>感谢注册VidTube，你的邮箱验证码是：</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{verificationCode}</p>
  <p>验证码5分钟内有效，请勿泄露给他人。</p>
  <p>如果这不是你的操作，请忽略这封邮件。</p>
</body>
</html>`

// 重置密码验证码邮件模板
const PasswordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>你好 {name}，</h2>
  <p>我们收到了你的密码重置请求，验证码是：</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{verificationCode}</p>
  <p>验证码5分钟内有效。如果这不是你的操作，请立即修改密码。</p>
</body>
</html>`

// RenderTemplate 填充模板里的占位符
func RenderTemplate(tpl, name, code string) string {
	out := strings.ReplaceAll(tpl, "{name}", name)
	return strings.ReplaceAll(out, "{verificationCode}", code)
}
