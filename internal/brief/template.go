package brief

// emailTemplate is the full newsletter layout. Styles are inlined in a
// <style> block; the dark palette and gold accent survive most mobile
// clients, and grid sections collapse to one column under 480px.
const emailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Morning Market Brief</title>
<style>
  body { margin: 0; padding: 0; background-color: #f0f2f5; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; }
  table { border-collapse: collapse; }
  img { border: 0; }
  a { color: #d4a017; text-decoration: none; }
  a:hover { text-decoration: underline; }

  .wrapper { width: 100%; background-color: #f0f2f5; padding: 20px 0; }
  .container { max-width: 600px; margin: 0 auto; background-color: #0f1923; border-radius: 12px; overflow: hidden; }

  .header { background: linear-gradient(135deg, #0f1923 0%, #1a2d42 100%); padding: 32px 28px 24px; border-bottom: 2px solid #d4a017; }
  .header-date { color: #d4a017; font-size: 12px; font-weight: 600; letter-spacing: 2px; text-transform: uppercase; margin-bottom: 8px; }
  .header-title { color: #ffffff; font-size: 26px; font-weight: 700; margin: 0 0 6px 0; line-height: 1.2; }
  .header-sub { color: #8fa3b8; font-size: 13px; margin: 0; }

  .section { padding: 20px 28px; border-bottom: 1px solid #1e2e3d; }
  .section:last-of-type { border-bottom: none; }
  .section-title { color: #d4a017; font-size: 11px; font-weight: 700; letter-spacing: 2px; text-transform: uppercase; margin: 0 0 14px 0; display: flex; align-items: center; gap: 8px; }
  .section-title-line { flex: 1; height: 1px; background: #1e2e3d; }

  .tldr-box { background: #1a2d42; border-left: 3px solid #d4a017; border-radius: 4px; padding: 14px 16px; }
  .tldr-item { color: #e8edf2; font-size: 14px; line-height: 1.6; margin: 6px 0; display: flex; gap: 10px; }
  .tldr-bullet { color: #d4a017; font-weight: 700; flex-shrink: 0; }

  .market-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 10px; }
  .market-card { background: #1a2d42; border-radius: 8px; padding: 12px 14px; }
  .market-name { color: #8fa3b8; font-size: 11px; font-weight: 600; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 4px; }
  .market-value { color: #ffffff; font-size: 18px; font-weight: 700; margin-bottom: 2px; }
  .market-change-up { color: #22c55e; font-size: 13px; font-weight: 600; }
  .market-change-down { color: #ef4444; font-size: 13px; font-weight: 600; }
  .market-change-neutral { color: #8fa3b8; font-size: 13px; }
  .market-note { color: #8fa3b8; font-size: 11px; margin-top: 4px; font-style: italic; }

  .news-item { margin-bottom: 18px; padding-bottom: 18px; border-bottom: 1px solid #1e2e3d; }
  .news-item:last-child { border-bottom: none; margin-bottom: 0; padding-bottom: 0; }
  .news-headline { color: #ffffff; font-size: 15px; font-weight: 600; line-height: 1.4; margin: 0 0 4px 0; }
  .news-time { color: #4a6070; font-size: 11px; margin: 0 0 6px 0; }
  .news-impact { color: #c8d6e5; font-size: 13px; line-height: 1.6; margin: 0 0 6px 0; }
  .news-sentiment { display: inline-block; padding: 2px 8px; border-radius: 20px; font-size: 11px; font-weight: 700; text-transform: uppercase; letter-spacing: 1px; }
  .bullish { background: #14532d; color: #22c55e; }
  .bearish { background: #450a0a; color: #ef4444; }
  .neutral { background: #1e3a5f; color: #60a5fa; }
  .watchful { background: #451a03; color: #fb923c; }

  .stock-watch-grid { display: grid; grid-template-columns: 1fr 1fr 1fr; gap: 10px; }
  .stock-watch-col { background: #1a2d42; border-radius: 8px; padding: 12px 14px; }
  .stock-watch-header { font-size: 10px; font-weight: 700; letter-spacing: 1.5px; text-transform: uppercase; margin: 0 0 10px 0; padding-bottom: 8px; border-bottom: 1px solid #243d57; }
  .swh-green { color: #22c55e; }
  .swh-amber { color: #f59e0b; }
  .swh-red { color: #ef4444; }
  .stock-row { margin-bottom: 8px; }
  .stock-name { color: #ffffff; font-size: 13px; font-weight: 600; }
  .stock-cap { color: #4a6070; font-size: 10px; font-weight: 600; text-transform: uppercase; letter-spacing: 0.5px; margin-left: 5px; }
  .stock-reason { color: #8fa3b8; font-size: 11px; line-height: 1.5; margin-top: 2px; }
  @media only screen and (max-width: 480px) {
    .stock-watch-grid { grid-template-columns: 1fr; }
  }

  .ipo-card { background: #1a2d42; border-radius: 8px; padding: 14px 16px; margin-bottom: 10px; }
  .ipo-name { color: #ffffff; font-size: 15px; font-weight: 700; margin-bottom: 8px; }
  .ipo-meta { display: flex; flex-wrap: wrap; gap: 12px; }
  .ipo-tag { color: #8fa3b8; font-size: 12px; }
  .ipo-tag strong { color: #e8edf2; }
  .ipo-gmp-up { color: #22c55e; font-weight: 700; }
  .ipo-gmp-down { color: #ef4444; font-weight: 700; }
  .ipo-gmp-neutral { color: #8fa3b8; font-weight: 700; }

  .watch-item { color: #c8d6e5; font-size: 13px; line-height: 1.7; display: flex; gap: 10px; margin-bottom: 4px; }
  .watch-dot { color: #d4a017; flex-shrink: 0; }

  .footer { background: #0a1219; padding: 20px 28px; text-align: center; }
  .footer-text { color: #4a6070; font-size: 11px; line-height: 1.7; margin: 0; }

  @media only screen and (max-width: 480px) {
    .market-grid { grid-template-columns: 1fr 1fr; }
    .header-title { font-size: 22px; }
    .ipo-meta { flex-direction: column; gap: 6px; }
  }
</style>
</head>
<body>
<div class="wrapper">
<div class="container">

  <!-- HEADER -->
  <div class="header">
    <p class="header-date">{{.DateStr}} &nbsp;&middot;&nbsp; Before Market Open</p>
    <h1 class="header-title">Good Morning, {{.Name}}! &#9728;&#65039;</h1>
    <p class="header-sub">Your daily Nifty intel &mdash; delivered before 9:15 AM IST</p>
  </div>

  <!-- TL;DR -->
  <div class="section">
    <p class="section-title">TL;DR <span class="section-title-line"></span></p>
    <div class="tldr-box">
      {{range .TLDR}}<div class="tldr-item"><span class="tldr-bullet">{{.Number}}.</span> {{.Text}}</div>
      {{end}}
    </div>
  </div>

  <!-- MARKET PULSE -->
  <div class="section">
    <p class="section-title">Market Pulse <span class="section-title-line"></span></p>
    <div class="market-grid">
      {{range .MarketCards}}<div class="market-card">
  <div class="market-name">{{.Name}}</div>
  <div class="market-value">{{.Value}}</div>
  <div class="{{.ChangeClass}}">{{.Arrow}} {{.ChangePct}}%</div>
</div>
      {{end}}
    </div>
    {{if .GiftNifty}}<p style="color:#8fa3b8;font-size:12px;margin-top:12px;font-style:italic;">&#128225; Gift Nifty: {{.GiftNifty.Last}} &mdash; {{.GiftNifty.Note}}</p>{{end}}
    {{if .FIIDII}}<p style="color:#8fa3b8;font-size:12px;margin-top:8px;">FII net: <strong style="color:{{.FIIDII.FIIColor}}">₹{{.FIIDII.FIINet}} Cr</strong> &nbsp;|&nbsp; DII net: <strong style="color:{{.FIIDII.DIIColor}}">₹{{.FIIDII.DIINet}} Cr</strong> &nbsp;<span style="font-style:italic;">(yesterday's data)</span></p>{{end}}
  </div>

  <!-- GLOBAL HEADLINES -->
  <div class="section">
    <p class="section-title">Global Headlines &amp; India Impact <span class="section-title-line"></span></p>
    {{if .GlobalNews}}{{range .GlobalNews}}<div class="news-item">
  <p class="news-headline">{{.Headline}}</p>
  {{if .Time}}<p class="news-time">{{.Time}}</p>{{end}}
  <p class="news-impact">{{.Analysis}}</p>
  <span class="news-sentiment {{.Sentiment}}">{{.SentimentLabel}}</span>
</div>
    {{end}}{{else}}<p style="color:#8fa3b8;font-size:13px;">No major news today.</p>{{end}}
  </div>

  <!-- INDIA FOCUS -->
  <div class="section">
    <p class="section-title">India Focus <span class="section-title-line"></span></p>
    {{if .IndiaNews}}{{range .IndiaNews}}<div class="news-item">
  <p class="news-headline">{{.Headline}}</p>
  {{if .Time}}<p class="news-time">{{.Time}}</p>{{end}}
  <p class="news-impact">{{.Analysis}}</p>
  <span class="news-sentiment {{.Sentiment}}">{{.SentimentLabel}}</span>
</div>
    {{end}}{{else}}<p style="color:#8fa3b8;font-size:13px;">No major news today.</p>{{end}}
  </div>

  <!-- IPO CORNER -->
  <div class="section">
    <p class="section-title">IPO Corner <span class="section-title-line"></span></p>
    {{if .IPOCards}}{{range .IPOCards}}<div class="ipo-card">
  <div class="ipo-name">{{.Name}}</div>
  <div class="ipo-meta">
    <span class="ipo-tag">Price: <strong>{{.IssuePrice}}</strong></span>
    <span class="ipo-tag">GMP: <strong class="{{.GMPClass}}">{{.GMP}}</strong></span>
    <span class="ipo-tag">Subscribed: <strong>{{.Subscription}}</strong></span>
  </div>
  <p style="color:#8fa3b8;font-size:12px;margin:8px 0 0 0;">{{.Take}}</p>
</div>
    {{end}}{{else}}<p style="color:#8fa3b8;font-size:13px;">No active IPOs at the moment.</p>{{end}}
  </div>

  <!-- STOCK WATCH -->
  <div class="section">
    <p class="section-title">Stock Watch <span class="section-title-line"></span></p>
    <div class="stock-watch-grid">
      {{range .StockColumns}}<div class="stock-watch-col">
  <p class="stock-watch-header {{.HeaderClass}}">{{.Label}}</p>
  {{if .Stocks}}{{range .Stocks}}<div class="stock-row">
  <div><span class="stock-name">{{.Name}}</span>{{if .Cap}}<span class="stock-cap">{{.Cap}}</span>{{end}}</div>
  <div class="stock-reason">{{.Reason}}</div>
</div>{{end}}{{else}}<p style="color:#4a6070;font-size:12px;margin:0;">Nothing specific today</p>{{end}}
</div>
      {{end}}
    </div>
  </div>

  <!-- WHAT TO WATCH -->
  <div class="section">
    <p class="section-title">What to Watch Today <span class="section-title-line"></span></p>
    {{range .WatchItems}}<div class="watch-item"><span class="watch-dot">&rsaquo;</span> {{.}}</div>
    {{end}}
  </div>

  <!-- FOOTER -->
  <div class="footer">
    <p class="footer-text">
      This is not investment advice. All views are for educational purposes only.<br>
      Past performance is no guarantee of future results. Do your own research.<br><br>
      Generated by your personal AI market brief &middot; {{.DateStr}}
    </p>
  </div>

</div>
</div>
</body>
</html>`
